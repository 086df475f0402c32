// Package tagset parses the morphosyntactic tags of the IPI PAN corpus
// tagset, as emitted by Polish morphological dictionaries, and packs them
// into 64-bit codes that can be compared cheaply.
//
// A tag is a colon-separated list: the part of speech followed by the
// values of the categories that part of speech inflects for, e.g.
// "subst:sg:gen:m1". A category may list several values separated by dots
// ("nom.acc"), or "_" for all of them. Alternatives are joined with "|".
package tagset

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrUnknownPOS is returned for tags whose part of speech is not in
	// the tagset.
	ErrUnknownPOS = errors.New("unknown part of speech")
	// ErrInvalidTag is returned for tags with missing, extra or unknown
	// attribute values.
	ErrInvalidTag = errors.New("invalid tag")
)

// Category is a grammatical category.
type Category int

// Categories, in the order they are written in a tag.
const (
	Number Category = iota
	Case
	Gender
	Person
	Degree
	Aspect
	Negation
	Accentability
	PostPrepositionality
	Accommodability
	Agglutination
	Vocalicity
	numCategories
)

// Part-of-speech codes occupy the low byte of a tag code: the main class in
// the low nibble and the subclass in the high one.
const (
	Noun      uint64 = 1
	NounSubst        = 1 + 1<<4
	NounDepr         = 1 + 2<<4

	Adj      uint64 = 2
	AdjPlain        = 2 + 1<<4
	AdjA            = 2 + 2<<4
	AdjP            = 2 + 3<<4

	Adv uint64 = 3
	Num uint64 = 4

	Ppron       uint64 = 5
	Ppron12            = 5 + 1<<4
	Ppron3             = 5 + 2<<4
	PpronSiebie        = 5 + 3<<4

	Verb       uint64 = 6
	VerbFin           = 6 + 1<<4
	VerbBedzie        = 6 + 2<<4
	VerbAglt          = 6 + 3<<4
	VerbPraet         = 6 + 4<<4
	VerbImpt          = 6 + 5<<4
	VerbImps          = 6 + 6<<4
	VerbInf           = 6 + 7<<4
	VerbPcon          = 6 + 8<<4
	VerbPant          = 6 + 9<<4
	VerbGer           = 6 + 10<<4
	VerbPact          = 6 + 11<<4
	VerbPpas          = 6 + 12<<4

	Winien uint64 = 7
	Pred   uint64 = 8
	Prep   uint64 = 9
	Conj   uint64 = 10
	Qub    uint64 = 11
	Xxs    uint64 = 12
	Xxx    uint64 = 13
	Interp uint64 = 14
	Ign    uint64 = 15

	MaskPOS uint64 = 0xff
)

// Attribute value bits.
const (
	NumberSg uint64 = 1 << 9
	NumberPl uint64 = 1 << 10

	CaseNom  uint64 = 1 << 11
	CaseGen  uint64 = 1 << 12
	CaseDat  uint64 = 1 << 13
	CaseAcc  uint64 = 1 << 14
	CaseInst uint64 = 1 << 15
	CaseLoc  uint64 = 1 << 16
	CaseVoc  uint64 = 1 << 17

	GenderM  uint64 = 1 << 18
	GenderM1        = GenderM | 1<<19
	GenderM2        = GenderM | 1<<20
	GenderM3        = GenderM | 1<<21
	GenderF  uint64 = 1 << 22
	GenderN  uint64 = 1 << 23
	GenderN1        = GenderN | 1<<24
	GenderN2        = GenderN | 1<<25
	GenderP  uint64 = 1 << 26
	GenderP1        = GenderP | 1<<27
	GenderP2        = GenderP | 1<<28
	GenderP3        = GenderP | 1<<29

	PersonPri uint64 = 1 << 30
	PersonSec uint64 = 1 << 31
	PersonTer uint64 = 1 << 32

	DegreePos  uint64 = 1 << 33
	DegreeComp uint64 = 1 << 34
	DegreeSup  uint64 = 1 << 35

	AspectPerf   uint64 = 1 << 36
	AspectImperf uint64 = 1 << 37

	NegAff uint64 = 1 << 38
	NegNeg uint64 = 1 << 39

	AccAkc  uint64 = 1 << 40
	AccNakc uint64 = 1 << 41

	PraepPraep  uint64 = 1 << 42
	PraepNpraep uint64 = 1 << 43

	AccomCongr uint64 = 1 << 44
	AccomRec   uint64 = 1 << 45

	// Vocalicity and agglutination share bits; no part of speech inflects
	// for both.
	VocWok   uint64 = 1 << 48
	VocNwok  uint64 = 1 << 49
	AglutAgl uint64 = 1 << 48
	AglutNag uint64 = 1 << 49
)

// value is one spelling of a category value and its bits.
type value struct {
	name string
	bits uint64
}

// category lists the values of a category in canonical order.
type category struct {
	name   string
	values []value
	mask   uint64
}

func newCategory(name string, values ...value) category {
	c := category{name: name, values: values}
	for _, v := range values {
		c.mask |= v.bits
	}
	return c
}

// lookup returns the bits of a single value spelling.
func (c category) lookup(name string) (uint64, bool) {
	for _, v := range c.values {
		if v.name == name {
			return v.bits, true
		}
	}
	return 0, false
}

var categories = [numCategories]category{
	Number: newCategory("number", value{"sg", NumberSg}, value{"pl", NumberPl}),
	Case: newCategory("case",
		value{"nom", CaseNom}, value{"gen", CaseGen}, value{"dat", CaseDat}, value{"acc", CaseAcc},
		value{"inst", CaseInst}, value{"loc", CaseLoc}, value{"voc", CaseVoc}),
	Gender: newCategory("gender",
		value{"m1", GenderM1}, value{"m2", GenderM2}, value{"m3", GenderM3}, value{"f", GenderF},
		value{"n1", GenderN1}, value{"n2", GenderN2}, value{"p1", GenderP1}, value{"p2", GenderP2},
		value{"p3", GenderP3}),
	Person:               newCategory("person", value{"pri", PersonPri}, value{"sec", PersonSec}, value{"ter", PersonTer}),
	Degree:               newCategory("degree", value{"pos", DegreePos}, value{"comp", DegreeComp}, value{"sup", DegreeSup}),
	Aspect:               newCategory("aspect", value{"imperf", AspectImperf}, value{"perf", AspectPerf}),
	Negation:             newCategory("negation", value{"aff", NegAff}, value{"neg", NegNeg}),
	Accentability:        newCategory("accentability", value{"akc", AccAkc}, value{"nakc", AccNakc}),
	PostPrepositionality: newCategory("post-prepositionality", value{"praep", PraepPraep}, value{"npraep", PraepNpraep}),
	Accommodability:      newCategory("accommodability", value{"congr", AccomCongr}, value{"rec", AccomRec}),
	Agglutination:        newCategory("agglutination", value{"agl", AglutAgl}, value{"nagl", AglutNag}),
	Vocalicity:           newCategory("vocalicity", value{"wok", VocWok}, value{"nwok", VocNwok}),
}

// genderCoarse is the gender order of the older tagset, which has a single
// neuter "n". It is used when a code carries no neuter subgender.
var genderCoarse = newCategory("gender",
	value{"m1", GenderM1}, value{"m2", GenderM2}, value{"m3", GenderM3}, value{"f", GenderF},
	value{"n", GenderN}, value{"p1", GenderP1}, value{"p2", GenderP2}, value{"p3", GenderP3})

// String returns the category name.
func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return "unknown"
	}
	return categories[c].name
}

// slot is a category position in a tag layout.
type slot struct {
	cat      Category
	optional bool
}

// layout describes the tag shape of a part of speech.
type layout struct {
	code  uint64
	slots []slot
}

func req(c Category) slot { return slot{cat: c} }
func opt(c Category) slot { return slot{cat: c, optional: true} }

var layouts = map[string]layout{
	"subst":   {NounSubst, []slot{req(Number), req(Case), req(Gender)}},
	"depr":    {NounDepr, []slot{req(Number), req(Case), req(Gender)}},
	"xxs":     {Xxs, []slot{req(Number), req(Case), req(Gender)}},
	"adj":     {AdjPlain, []slot{req(Number), req(Case), req(Gender), req(Degree)}},
	"adja":    {AdjA, nil},
	"adjp":    {AdjP, nil},
	"adv":     {Adv, []slot{req(Degree)}},
	"num":     {Num, []slot{req(Number), req(Case), req(Gender), opt(Accommodability)}},
	"ppron12": {Ppron12, []slot{req(Number), req(Case), req(Gender), req(Person), opt(Accentability)}},
	"ppron3":  {Ppron3, []slot{req(Number), req(Case), req(Gender), req(Person), opt(Accentability), opt(PostPrepositionality)}},
	"siebie":  {PpronSiebie, []slot{req(Case)}},
	"fin":     {VerbFin, []slot{req(Number), req(Person), req(Aspect)}},
	"bedzie":  {VerbBedzie, []slot{req(Number), req(Person), req(Aspect)}},
	"aglt":    {VerbAglt, []slot{req(Number), req(Person), req(Aspect), req(Vocalicity)}},
	"praet":   {VerbPraet, []slot{req(Number), req(Gender), req(Aspect), opt(Agglutination)}},
	"impt":    {VerbImpt, []slot{req(Number), req(Person), req(Aspect)}},
	"imps":    {VerbImps, []slot{req(Aspect)}},
	"inf":     {VerbInf, []slot{req(Aspect)}},
	"pcon":    {VerbPcon, []slot{req(Aspect)}},
	"pant":    {VerbPant, []slot{req(Aspect)}},
	"ger":     {VerbGer, []slot{req(Number), req(Case), req(Gender), req(Aspect), req(Negation)}},
	"pact":    {VerbPact, []slot{req(Number), req(Case), req(Gender), req(Aspect), req(Negation)}},
	"ppas":    {VerbPpas, []slot{req(Number), req(Case), req(Gender), req(Aspect), req(Negation)}},
	"winien":  {Winien, []slot{req(Number), req(Gender), req(Aspect)}},
	"pred":    {Pred, nil},
	"prep":    {Prep, []slot{req(Case), opt(Vocalicity)}},
	"conj":    {Conj, nil},
	"qub":     {Qub, []slot{opt(Vocalicity)}},
	"xxx":     {Xxx, nil},
	"interp":  {Interp, nil},
	"ign":     {Ign, nil},
}

// posNames maps a part-of-speech code back to its spelling.
var posNames = func() map[uint64]string {
	m := make(map[uint64]string, len(layouts))
	for name, l := range layouts {
		m[l.code] = name
	}
	return m
}()

// Tag is a parsed morphosyntactic tag.
type Tag struct {
	// POS is the part of speech, e.g. "subst".
	POS string
	// Code packs the part of speech and every attribute value.
	Code uint64

	attrs [numCategories]string
}

// Get returns the attribute values of category c as written in the tag
// ("nom.acc"), or "" when the tag has none.
func (t Tag) Get(c Category) string {
	if c < 0 || c >= numCategories {
		return ""
	}
	return t.attrs[c]
}

// String formats the tag from its code, in canonical value order.
func (t Tag) String() string {
	return Format(t.Code)
}

// Parse parses "|"-separated tag alternatives. An empty string yields no
// tags.
func Parse(alternatives string) ([]Tag, error) {
	if alternatives == "" {
		return []Tag{}, nil
	}
	parts := strings.Split(alternatives, "|")
	tags := make([]Tag, 0, len(parts))
	for _, p := range parts {
		t, err := ParseOne(p)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// ParseOne parses a single tag.
func ParseOne(s string) (Tag, error) {
	fields := strings.Split(s, ":")
	t := Tag{POS: fields[0]}
	l, ok := layouts[t.POS]
	if !ok {
		return Tag{}, errors.Wrapf(ErrUnknownPOS, "%q", s)
	}
	t.Code = l.code

	i := 1
	for _, sl := range l.slots {
		if i >= len(fields) {
			if sl.optional {
				continue
			}
			return Tag{}, errors.Wrapf(ErrInvalidTag, "%q: %s missing", s, sl.cat)
		}
		bits, err := parseValues(sl.cat, fields[i])
		if err != nil {
			if sl.optional {
				continue
			}
			return Tag{}, errors.Wrapf(err, "%q", s)
		}
		t.attrs[sl.cat] = fields[i]
		t.Code |= bits
		i++
	}
	if i != len(fields) {
		return Tag{}, errors.Wrapf(ErrInvalidTag, "%q: unexpected %q", s, strings.Join(fields[i:], ":"))
	}
	return t, nil
}

// parseValues parses a dot-separated value list of category c.
func parseValues(c Category, s string) (uint64, error) {
	cat := categories[c]
	if s == "_" {
		return cat.mask, nil
	}
	var bits uint64
	for _, v := range strings.Split(s, ".") {
		b, ok := cat.lookup(v)
		if !ok && c == Gender {
			b, ok = genderCoarse.lookup(v)
		}
		if !ok {
			return 0, errors.Wrapf(ErrInvalidTag, "illegal %s value %q", c, v)
		}
		bits |= b
	}
	return bits, nil
}

// Format reconstructs a tag from its code. It returns "?" for codes
// without a known part of speech.
func Format(code uint64) string {
	name, ok := posNames[code&MaskPOS]
	if !ok {
		return "?"
	}
	var b strings.Builder
	b.WriteString(name)
	for _, sl := range layouts[name].slots {
		cat := categories[sl.cat]
		if sl.cat == Gender && code&(GenderN1|GenderN2) == GenderN {
			cat = genderCoarse
		}
		emit(&b, cat, code&cat.mask)
	}
	return b.String()
}

// emit writes ":v1.v2" for the values of cat fully present in bits, or
// nothing when none is.
func emit(b *strings.Builder, cat category, bits uint64) {
	first := true
	for _, v := range cat.values {
		if bits&v.bits != v.bits {
			continue
		}
		if first {
			b.WriteByte(':')
			first = false
		} else {
			b.WriteByte('.')
		}
		b.WriteString(v.name)
	}
}

// Contained reports whether the narrower tag code is subsumed by the
// wider one: same part of speech, and every category the wider tag
// constrains shares at least one value with the narrower tag.
func Contained(wider, narrower uint64) bool {
	if wider&MaskPOS != narrower&MaskPOS {
		return false
	}
	masked := wider & narrower
	for _, c := range []Category{Aspect, Case, Degree, Gender, Number, Person} {
		mask := categories[c].mask
		if wider&mask != 0 && masked&mask == 0 {
			return false
		}
	}
	return true
}
