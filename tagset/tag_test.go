package tagset

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmpty(t *testing.T) {
	tags, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestParseAlternatives(t *testing.T) {
	tags, err := Parse("subst:sg:gen:m1|subst:sg:acc:m1")
	require.NoError(t, err)
	require.Len(t, tags, 2)

	assert.Equal(t, "subst", tags[0].POS)
	assert.Equal(t, "gen", tags[0].Get(Case))
	assert.Equal(t, "acc", tags[1].Get(Case))
	assert.Equal(t, NounSubst|NumberSg|CaseGen|GenderM1, tags[0].Code)
	assert.Equal(t, "", tags[0].Get(Person))
}

func TestParseMultipleValues(t *testing.T) {
	tag, err := ParseOne("adj:pl:nom.acc:m2.m3.f.n1.n2.p2.p3:pos")
	require.NoError(t, err)
	assert.NotZero(t, tag.Code&CaseNom)
	assert.NotZero(t, tag.Code&CaseAcc)
	assert.Zero(t, tag.Code&CaseGen)
	assert.Equal(t, "adj:pl:nom.acc:m2.m3.f.n1.n2.p2.p3:pos", tag.String())
}

func TestParseUnderscore(t *testing.T) {
	tag, err := ParseOne("subst:_:nom:f")
	require.NoError(t, err)
	assert.Equal(t, "subst:sg.pl:nom:f", tag.String())
}

func TestNeutralGenders(t *testing.T) {
	tag, err := ParseOne("adj:pl:gen:m1.m2.m3.f.n:pos")
	require.NoError(t, err)
	assert.Equal(t, "adj:pl:gen:m1.m2.m3.f.n:pos", tag.String())

	tag, err = ParseOne("subst:sg:nom:n2")
	require.NoError(t, err)
	assert.Equal(t, "subst:sg:nom:n2", Format(tag.Code))
}

func TestOptionalSlots(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ppron3:sg:gen:m1:ter:akc:praep", "ppron3:sg:gen:m1:ter:akc:praep"},
		{"ppron3:sg:gen:m1:ter:praep", "ppron3:sg:gen:m1:ter:praep"},
		{"ppron3:sg:gen:m1:ter", "ppron3:sg:gen:m1:ter"},
		{"praet:sg:m1:perf:agl", "praet:sg:m1:perf:agl"},
		{"praet:sg:m1:perf", "praet:sg:m1:perf"},
		{"prep:gen:wok", "prep:gen:wok"},
		{"qub", "qub"},
		{"aglt:sg:pri:imperf:nwok", "aglt:sg:pri:imperf:nwok"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tag, err := ParseOne(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tag.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"noun:sg", ErrUnknownPOS},
		{"", ErrUnknownPOS},
		{"subst:sg:gen", ErrInvalidTag},
		{"subst:sg:gen:m1:extra", ErrInvalidTag},
		{"subst:du:gen:m1", ErrInvalidTag},
		{"fin:sg:pri:perf:wok", ErrInvalidTag},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseOne(tt.in)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err := Parse("subst:sg:gen:m1|bogus")
	assert.True(t, errors.Is(err, ErrUnknownPOS))
}

func TestFormatUnknown(t *testing.T) {
	assert.Equal(t, "?", Format(0))
	assert.Equal(t, "?", Format(Noun))
}

func TestContained(t *testing.T) {
	parse := func(s string) uint64 {
		tag, err := ParseOne(s)
		require.NoError(t, err)
		return tag.Code
	}

	wide := parse("subst:sg:nom.acc:f")
	assert.True(t, Contained(wide, parse("subst:sg:acc:f")))
	assert.False(t, Contained(wide, parse("subst:sg:gen:f")))
	assert.False(t, Contained(wide, parse("subst:pl:acc:f")))
	assert.False(t, Contained(wide, parse("depr:sg:acc:f")))

	// Categories the wider tag leaves open do not constrain.
	assert.True(t, Contained(parse("fin:sg:pri:perf"), parse("fin:sg:pri:perf")))
	assert.True(t, Contained(NounSubst, parse("subst:pl:loc:n1")))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "case", Case.String())
	assert.Equal(t, "post-prepositionality", PostPrepositionality.String())
	assert.Equal(t, "unknown", Category(99).String())
}
