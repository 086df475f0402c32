package morfeusz

import (
	"slices"
	"unicode"
)

// trieEdge is a labelled transition to another trie node.
type trieEdge struct {
	r    rune
	next int32
}

// trieNode is a state of the lexicon trie. Nodes live in Lexicon.nodes
// and refer to each other by index.
type trieNode struct {
	// edges is sorted by rune once the lexicon is built.
	edges []trieEdge
	// entries indexes Lexicon.entries, in declaration order.
	entries []int32
}

// Lexicon is an immutable, compiled dictionary mapping surface fragments
// to their interpretations. It is safe for concurrent use by any number of
// analyses once built.
type Lexicon struct {
	// nodes is the trie over case-folded fragments; nodes[0] is the root.
	nodes []trieNode

	// entries holds every record in declaration order. Lemma and tag
	// strings are interned, so equal values share storage.
	entries []Entry

	// byLemma maps a lemma to the entries declaring it.
	byLemma map[string][]int32

	// about is the free text from the @about header lines.
	about string
}

// NewLexicon builds a lexicon from in-memory entries. Declaration order is
// the order of the slice.
func NewLexicon(entries []Entry, about string) (*Lexicon, error) {
	b := newLexiconBuilder()
	for i, e := range entries {
		if err := b.add(e); err != nil {
			return nil, loadErrorf(err, "entry %d", i)
		}
	}
	b.about = about
	return b.build(), nil
}

// Entries returns the number of records in the lexicon.
func (l *Lexicon) Entries() int {
	return len(l.entries)
}

// About returns the descriptive text declared by the lexicon file.
func (l *Lexicon) About() string {
	return l.about
}

// Lookup returns every entry whose fragment is a prefix of probe or equal
// to it, compared case-insensitively. Longer fragments come first; entries
// of equal length keep their declaration order.
func (l *Lexicon) Lookup(probe string) []Match {
	runes := foldRunes([]rune(probe))
	var groups [][]Match
	l.walk(runes, 0, func(end int, ids []int32) {
		g := make([]Match, 0, len(ids))
		for _, id := range ids {
			g = append(g, Match{Entry: l.entries[id], Len: end})
		}
		groups = append(groups, g)
	})
	var out []Match
	for i := len(groups) - 1; i >= 0; i-- {
		out = append(out, groups[i]...)
	}
	return out
}

// walk follows folded[start:] through the trie and calls fn for every
// node carrying entries, with the offset the fragment ends at. Calls are
// made in increasing end order.
func (l *Lexicon) walk(folded []rune, start int, fn func(end int, ids []int32)) {
	if len(l.nodes) == 0 {
		return
	}
	n := int32(0)
	for i := start; i < len(folded); i++ {
		next, ok := l.child(n, folded[i])
		if !ok {
			return
		}
		n = next
		if ids := l.nodes[n].entries; len(ids) > 0 {
			fn(i+1, ids)
		}
	}
}

// child returns the transition of node n labelled r.
func (l *Lexicon) child(n int32, r rune) (int32, bool) {
	edges := l.nodes[n].edges
	i, ok := slices.BinarySearchFunc(edges, r, func(e trieEdge, r rune) int {
		return int(e.r - r)
	})
	if !ok {
		return 0, false
	}
	return edges[i].next, true
}

// foldRunes lowercases runes in place, one rune for one rune, so that
// offsets into the folded slice are offsets into the original token.
func foldRunes(runes []rune) []rune {
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

// lexiconBuilder accumulates entries before the trie is frozen.
type lexiconBuilder struct {
	lex      *Lexicon
	children map[childKey]int32
	intern   map[string]string
	about    string
}

type childKey struct {
	node int32
	r    rune
}

func newLexiconBuilder() *lexiconBuilder {
	return &lexiconBuilder{
		lex: &Lexicon{
			nodes:   []trieNode{{}},
			byLemma: make(map[string][]int32),
		},
		children: make(map[childKey]int32),
		intern:   make(map[string]string),
	}
}

// add inserts one entry after validating it.
func (b *lexiconBuilder) add(e Entry) error {
	if err := validateEntry(e); err != nil {
		return err
	}
	e.Lemma = b.interned(e.Lemma)
	e.Tag = b.interned(e.Tag)

	id := int32(len(b.lex.entries))
	b.lex.entries = append(b.lex.entries, e)
	b.lex.byLemma[e.Lemma] = append(b.lex.byLemma[e.Lemma], id)

	n := int32(0)
	for _, r := range e.Form {
		r = unicode.ToLower(r)
		k := childKey{n, r}
		next, ok := b.children[k]
		if !ok {
			next = int32(len(b.lex.nodes))
			b.lex.nodes = append(b.lex.nodes, trieNode{})
			b.lex.nodes[n].edges = append(b.lex.nodes[n].edges, trieEdge{r: r, next: next})
			b.children[k] = next
		}
		n = next
	}
	b.lex.nodes[n].entries = append(b.lex.nodes[n].entries, id)
	return nil
}

func (b *lexiconBuilder) interned(s string) string {
	if v, ok := b.intern[s]; ok {
		return v
	}
	b.intern[s] = s
	return s
}

// build freezes the trie. The builder must not be used afterwards.
func (b *lexiconBuilder) build() *Lexicon {
	for i := range b.lex.nodes {
		slices.SortFunc(b.lex.nodes[i].edges, func(x, y trieEdge) int {
			return int(x.r - y.r)
		})
	}
	b.lex.about = b.about
	lex := b.lex
	b.lex, b.children, b.intern = nil, nil, nil
	return lex
}
