package morfeusz

import (
	"github.com/samber/lo"
)

// Generate returns every entry declaring lemma, in declaration order. It
// is the inverse of analysis: the forms a lemma inflects to.
func (l *Lexicon) Generate(lemma string) []Entry {
	ids := l.byLemma[lemma]
	if len(ids) == 0 {
		return nil
	}
	return lo.Map(ids, func(id int32, _ int) Entry {
		return l.entries[id]
	})
}

// Paradigm groups the forms of lemma by tag. Forms within a tag are
// deduplicated and keep declaration order.
func (l *Lexicon) Paradigm(lemma string) map[string][]string {
	entries := l.Generate(lemma)
	if entries == nil {
		return nil
	}
	byTag := lo.GroupBy(entries, func(e Entry) string {
		return e.Tag
	})
	return lo.MapValues(byTag, func(es []Entry, _ string) []string {
		return lo.Uniq(lo.Map(es, func(e Entry, _ int) string {
			return e.Form
		}))
	})
}
