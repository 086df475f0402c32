package morfeusz

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLexicon is a small Polish lexicon covering plain words, an
// agglutinated past tense and a proper noun.
const testLexicon = `! test lexicon
@format morfeusz 1
@about Test lexicon
@about (two lines)
kota	kot	subst:sg:gen:m1
kota	kot	subst:sg:acc:m1
kot	kot	subst:sg:nom:m1
miałem	miał	subst:sg:inst:m3
miał	mieć	praet:sg:m1.m2.m3:imperf	split
miał	miał	subst:sg:nom:m3
został	zostać	praet:sg:m1.m2.m3:perf	split
em	być	aglt:sg:pri:imperf:nwok	bound
Kraków	Kraków	subst:sg:nom:m3
kraków	krakowy	adj:pl:gen:m1.m2.m3.f.n:pos
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func loadTestLexicon(t *testing.T) *Lexicon {
	t.Helper()
	lex, err := ReadLexicon(strings.NewReader(testLexicon))
	require.NoError(t, err)
	return lex
}

func TestReadLexicon(t *testing.T) {
	lex := loadTestLexicon(t)
	assert.Equal(t, 10, lex.Entries())
	assert.Equal(t, "Test lexicon\n(two lines)", lex.About())
}

func TestLoadLexiconCompressed(t *testing.T) {
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write([]byte(testLexicon))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	require.NoError(t, err)
	_, err = zw.Write([]byte(testLexicon))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	tests := []struct {
		name string
		data []byte
	}{
		{"lexicon.txt", []byte(testLexicon)},
		{"lexicon.txt.gz", gz.Bytes()},
		{"lexicon.txt.zst", zs.Bytes()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex, err := LoadLexicon(writeFile(t, tt.name, tt.data))
			require.NoError(t, err)
			assert.Equal(t, 10, lex.Entries())
		})
	}
}

func TestLoadLexiconErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"version mismatch", "@format morfeusz 2\nkot\tkot\tsubst:sg:nom:m1\n"},
		{"wrong format name", "@format other 1\n"},
		{"missing header", "kot\tkot\tsubst:sg:nom:m1\n"},
		{"empty file", ""},
		{"too few fields", "@format morfeusz 1\nkot\tkot\n"},
		{"too many fields", "@format morfeusz 1\nkot\tkot\tsubst\tsplit\textra\n"},
		{"unknown flag", "@format morfeusz 1\nkot\tkot\tsubst:sg:nom:m1\tsticky\n"},
		{"empty form", "@format morfeusz 1\n\tkot\tsubst:sg:nom:m1\n"},
		{"unknown directive", "@format morfeusz 1\n@compile fast\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLexicon(strings.NewReader(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrLoad), "got %v", err)
		})
	}

	_, err := LoadLexicon(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, errors.Is(err, ErrLoad))

	_, err = LoadLexicon(writeFile(t, "broken.gz", []byte("not gzip")))
	assert.True(t, errors.Is(err, ErrLoad))
}

func TestNewLexiconRejectsBadEntries(t *testing.T) {
	_, err := NewLexicon([]Entry{{Form: "kot", Lemma: "kot"}}, "")
	assert.True(t, errors.Is(err, ErrLoad))
}

func TestLookupOrder(t *testing.T) {
	lex := loadTestLexicon(t)

	got := lex.Lookup("miałem")
	require.Len(t, got, 3)
	assert.Equal(t, 6, got[0].Len)
	assert.Equal(t, "subst:sg:inst:m3", got[0].Tag)
	// Same length: declaration order.
	assert.Equal(t, 4, got[1].Len)
	assert.Equal(t, "mieć", got[1].Lemma)
	assert.Equal(t, 4, got[2].Len)
	assert.Equal(t, "miał", got[2].Lemma)

	got = lex.Lookup("kotami")
	require.Len(t, got, 3)
	assert.Equal(t, []int{4, 4, 3}, []int{got[0].Len, got[1].Len, got[2].Len})

	assert.Empty(t, lex.Lookup("zzqx"))
	assert.Empty(t, lex.Lookup(""))
}

func TestLookupFoldsCase(t *testing.T) {
	lex := loadTestLexicon(t)
	got := lex.Lookup("KRAKÓW")
	require.Len(t, got, 2)
	assert.Equal(t, "Kraków", got[0].Form)
	assert.Equal(t, "kraków", got[1].Form)
}

func TestGenerate(t *testing.T) {
	lex := loadTestLexicon(t)

	forms := lex.Generate("kot")
	require.Len(t, forms, 3)
	assert.Equal(t, "kota", forms[0].Form)
	assert.Equal(t, "kot", forms[2].Form)
	assert.Nil(t, lex.Generate("pies"))

	p := lex.Paradigm("kot")
	assert.Equal(t, map[string][]string{
		"subst:sg:gen:m1": {"kota"},
		"subst:sg:acc:m1": {"kota"},
		"subst:sg:nom:m1": {"kot"},
	}, p)
	assert.Nil(t, lex.Paradigm("pies"))
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags("split,bound")
	require.NoError(t, err)
	assert.True(t, f.Has(FlagSplit))
	assert.True(t, f.Has(FlagBound))
	assert.Equal(t, "split,bound", f.String())

	f, err = ParseFlags("")
	require.NoError(t, err)
	assert.Equal(t, Flag(0), f)

	_, err = ParseFlags("split,odd")
	assert.Error(t, err)
}
