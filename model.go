package morfeusz

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Flag holds segmentation properties of a lexicon entry.
type Flag uint8

const (
	// FlagSplit marks the end of the entry as a segmentation point: the
	// segment may be followed by another segment of the same token.
	FlagSplit Flag = 1 << iota
	// FlagBound marks a bound segment (agglutinate, clitic) that can only
	// follow a segmentation point and never starts a token.
	FlagBound
)

// flagNames maps the lexicon file spelling of a flag to its value.
var flagNames = map[string]Flag{
	"split": FlagSplit,
	"bound": FlagBound,
}

// ParseFlags parses a comma-separated flag list such as "split,bound".
// An empty string yields no flags.
func ParseFlags(s string) (Flag, error) {
	var f Flag
	if s == "" {
		return f, nil
	}
	for _, name := range strings.Split(s, ",") {
		v, ok := flagNames[strings.TrimSpace(name)]
		if !ok {
			return 0, errors.Newf("unknown flag %q", name)
		}
		f |= v
	}
	return f, nil
}

// Has reports whether all bits of o are set in f.
func (f Flag) Has(o Flag) bool {
	return f&o == o
}

func (f Flag) String() string {
	var names []string
	if f.Has(FlagSplit) {
		names = append(names, "split")
	}
	if f.Has(FlagBound) {
		names = append(names, "bound")
	}
	return strings.Join(names, ",")
}

// MarshalText writes the flags as they appear in lexicon files.
func (f Flag) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Entry is a single lexicon record: a surface fragment with one of its
// interpretations.
type Entry struct {
	// Form is the surface fragment as declared in the lexicon.
	Form string `json:"form"`
	// Lemma is the dictionary base form.
	Lemma string `json:"lemma"`
	// Tag is the morphosyntactic tag, e.g. "subst:sg:gen:m1".
	Tag string `json:"tag"`
	// Flags holds segmentation properties.
	Flags Flag `json:"flags,omitempty"`
}

// Match is a lexicon entry whose fragment is a prefix of a probe.
type Match struct {
	Entry
	// Len is the fragment length in characters.
	Len int
}

// Segment is one interpretation of a span of the analyzed token.
type Segment struct {
	// P is the start node (character offset) of the segment.
	P int `json:"p"`
	// K is the end node (character offset, exclusive) of the segment.
	K int `json:"k"`
	// Form is the token substring covered by the segment.
	Form string `json:"form"`
	// Lemma is the dictionary base form.
	Lemma string `json:"lemma"`
	// Tag is the morphosyntactic tag.
	Tag string `json:"tag"`
}

func (s Segment) String() string {
	var b strings.Builder
	b.Grow(len(s.Form) + len(s.Lemma) + len(s.Tag) + 16)
	b.WriteString(strconv.Itoa(s.P))
	b.WriteByte('-')
	b.WriteString(strconv.Itoa(s.K))
	b.WriteString(" : ")
	b.WriteString(s.Form)
	b.WriteString(" : ")
	b.WriteString(s.Lemma)
	b.WriteString(" : ")
	b.WriteString(s.Tag)
	return b.String()
}

const (
	// TagUnknown is the tag of the segment emitted for words the lexicon
	// does not cover.
	TagUnknown = "unknown"

	// NoLimit disables the capacity check of Analyze.
	NoLimit = -1
)

// Runs splits an analysis result into its interpretation paths. Every
// path starts at node 0 and ends at the token length.
func Runs(segs []Segment) [][]Segment {
	var runs [][]Segment
	start := 0
	for i := 1; i <= len(segs); i++ {
		if i == len(segs) || segs[i].P == 0 {
			runs = append(runs, segs[start:i])
			start = i
		}
	}
	return runs
}
