// Package morfeusz provides dictionary-based morphological analysis: for a
// single token it returns every interpretation the lexicon allows, as runs
// of segments with a lemma and a morphosyntactic tag each.
//
// A token may decompose into several segments when the lexicon marks
// segmentation points, as in Polish agglutinated forms ("zostałem" =
// "został" + "em"). All decompositions are returned; choosing one is left
// to a tagger.
//
// Results are returned as slices and carry their own length. Layers that
// copy them into fixed-size buffers terminate the sequence with a record
// whose start node is -1; no such record ever appears in a result.
package morfeusz

import (
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// maxPrealloc caps the result capacity reserved up front.
const maxPrealloc = 1 << 12

// Analyzer analyzes tokens against a Lexicon. It keeps no per-token state,
// so one Analyzer may serve concurrent calls.
type Analyzer struct {
	lex     *Lexicon
	options *Registry
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRegistry makes the analyzer read its settings from r, which may be
// shared with other analyzers.
func WithRegistry(r *Registry) Option {
	return func(a *Analyzer) {
		a.options = r
	}
}

// New returns an Analyzer over lex. It fails with ErrNotReady when lex is
// nil, so an analyzer without a lexicon never exists.
func New(lex *Lexicon, opts ...Option) (*Analyzer, error) {
	if lex == nil {
		return nil, errors.Wrap(ErrNotReady, "nil lexicon")
	}
	a := &Analyzer{lex: lex}
	for _, o := range opts {
		o(a)
	}
	if a.options == nil {
		a.options = NewRegistry()
	}
	return a, nil
}

// Lexicon returns the lexicon the analyzer reads.
func (a *Analyzer) Lexicon() *Lexicon {
	return a.lex
}

// Options returns the registry the analyzer takes its settings from.
func (a *Analyzer) Options() *Registry {
	return a.options
}

// About returns the version text of the engine followed by the lexicon's
// own description, if any.
func (a *Analyzer) About() string {
	if a.lex == nil || a.lex.About() == "" {
		return About()
	}
	return About() + "\n\n" + a.lex.About()
}

// Analyze returns the interpretations of token, encoded as the OptEncoding
// option says. Options are read once, when the call starts.
//
// The result is the concatenation of all runs; see Runs. If the runs hold
// more than capacity segments, Analyze fails with a *GraphOverflowError
// and returns nothing. A negative capacity (NoLimit) disables the check.
// A token the lexicon does not cover yields either a single TagUnknown
// segment or an empty result, depending on OptUnknownWords.
func (a *Analyzer) Analyze(token []byte, capacity int) ([]Segment, error) {
	if a == nil || a.lex == nil {
		return nil, ErrNotReady
	}
	return a.AnalyzeWith(a.options.Snapshot(), token, capacity)
}

// AnalyzeWith is Analyze with explicit options instead of the registry's.
// Options that fail Validate are rejected with ErrInvalidOption.
func (a *Analyzer) AnalyzeWith(opts Options, token []byte, capacity int) ([]Segment, error) {
	if a == nil || a.lex == nil {
		return nil, ErrNotReady
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkLength(len(token), opts); err != nil {
		return nil, err
	}
	s, err := opts.Encoding.Decode(token)
	if err != nil {
		return nil, err
	}
	return a.analyze(opts, s, capacity)
}

// AnalyzeString analyzes a UTF-8 token. OptEncoding does not apply.
func (a *Analyzer) AnalyzeString(token string, capacity int) ([]Segment, error) {
	if a == nil || a.lex == nil {
		return nil, ErrNotReady
	}
	opts := a.options.Snapshot()
	if err := checkLength(len(token), opts); err != nil {
		return nil, err
	}
	if !utf8.ValidString(token) {
		return nil, errors.Wrap(ErrInvalidToken, "malformed utf-8")
	}
	return a.analyze(opts, token, capacity)
}

func checkLength(n int, opts Options) error {
	if n >= opts.MaxTokenLength {
		return errors.Wrapf(ErrTokenTooLong, "%d bytes, at most %d allowed", n, opts.MaxTokenLength-1)
	}
	return nil
}

// analyze runs the enumeration on a decoded token.
func (a *Analyzer) analyze(opts Options, token string, capacity int) ([]Segment, error) {
	runes := []rune(token)
	n := len(runes)
	if n == 0 {
		return []Segment{}, nil
	}
	folded := foldRunes(append([]rune(nil), runes...))

	g := buildGraph(a.lex, runes, folded, opts.CaseSensitive)
	if !g.covered() {
		return unknownWord(opts, token, n, capacity)
	}

	needed := g.needed()
	if capacity >= 0 && needed > capacity {
		return nil, &GraphOverflowError{Needed: needed, Capacity: capacity}
	}
	out := make([]Segment, 0, min(needed, maxPrealloc))
	return g.emit(a.lex, token, runeOffsets(token, n), out), nil
}

// unknownWord applies the unknown-word policy to a token without a
// covering walk.
func unknownWord(opts Options, token string, n, capacity int) ([]Segment, error) {
	if !opts.UnknownWords {
		return []Segment{}, nil
	}
	if capacity >= 0 && capacity < 1 {
		return nil, &GraphOverflowError{Needed: 1, Capacity: capacity}
	}
	return []Segment{{
		P:     0,
		K:     n,
		Form:  token,
		Lemma: lowerLemma(token),
		Tag:   TagUnknown,
	}}, nil
}
