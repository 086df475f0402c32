package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cours-de-latin/morfeusz"
)

const testLexicon = `@format morfeusz 1
@about Demo test lexicon
kota	kot	subst:sg:gen:m1
kota	kot	subst:sg:acc:m1
został	zostać	praet:sg:m1.m2.m3:perf	split
em	być	aglt:sg:pri:imperf:nwok	bound
łódź	łódź	subst:sg:nom:f
kot	kot	noun:sg
`

func writeLexicon(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexicon.txt")
	require.NoError(t, os.WriteFile(path, []byte(testLexicon), 0o644))
	return path
}

func execute(t *testing.T, stdin []byte, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestDemoStdin(t *testing.T) {
	lex := writeLexicon(t)
	out, errOut, err := execute(t, []byte("kota zostałem\nzzqx"), "--lexicon", lex)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "kota kota,kot,subst:sg:gen:m1; kota,kot,subst:sg:acc:m1", lines[0])
	assert.Equal(t, "zostałem został,zostać,praet:sg:m1.m2.m3:perf; em,być,aglt:sg:pri:imperf:nwok", lines[1])
	assert.Equal(t, "zzqx zzqx,zzqx,unknown", lines[2])
	assert.Contains(t, errOut, "Analyzed: 3 words")
	assert.Contains(t, errOut, "reading from standard input")
}

func TestDemoNoUnknown(t *testing.T) {
	lex := writeLexicon(t)
	out, _, err := execute(t, []byte("zzqx"), "--lexicon", lex, "--no-unknown")
	require.NoError(t, err)
	assert.Equal(t, "zzqx ?\n", out)
}

func TestDemoEncoding(t *testing.T) {
	lex := writeLexicon(t)
	in, err := morfeusz.EncodingISO8859_2.Encode("łódź kota")
	require.NoError(t, err)

	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	outPath := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(inPath, in, 0o644))

	_, _, err = execute(t, nil, "--lexicon", lex, "--encoding", "iso-8859-2", inPath, outPath)
	require.NoError(t, err)
	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "łódź łódź,łódź,subst:sg:nom:f\n"))
}

func TestDemoParseTags(t *testing.T) {
	lex := writeLexicon(t)
	_, errOut, err := execute(t, []byte("kot kota"), "--lexicon", lex, "--parsetags")
	require.NoError(t, err)
	assert.Contains(t, errOut, "could not parse tag")
	assert.Contains(t, errOut, "noun:sg")
	assert.NotContains(t, errOut, "subst:sg:gen:m1")
}

func TestDemoVersion(t *testing.T) {
	out, _, err := execute(t, nil, "--version")
	require.NoError(t, err)
	assert.Equal(t, morfeusz.About()+"\n", out)

	out, _, err = execute(t, nil, "--version", "--lexicon", writeLexicon(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Demo test lexicon")
}

func TestDemoErrors(t *testing.T) {
	t.Setenv("MORFEUSZ_LEXICON", "")
	_, _, err := execute(t, nil)
	assert.Error(t, err)

	_, _, err = execute(t, nil, "--lexicon", writeLexicon(t), "--encoding", "koi8-r")
	assert.Error(t, err)

	_, _, err = execute(t, nil, "--lexicon", writeLexicon(t), "a", "b", "c")
	assert.Error(t, err)
}

func TestDemoKeepsOutputOnReadError(t *testing.T) {
	lex, err := morfeusz.ReadLexicon(strings.NewReader(testLexicon))
	require.NoError(t, err)
	a, err := morfeusz.New(lex)
	require.NoError(t, err)

	errRead := errors.New("read failed")
	in := io.MultiReader(strings.NewReader("kota "), iotest.ErrReader(errRead))
	var out bytes.Buffer
	d := &demo{analyzer: a, encoding: morfeusz.EncodingUTF8, log: zap.NewNop()}

	st, err := d.run(in, &out)
	assert.True(t, errors.Is(err, errRead), "got %v", err)
	assert.Equal(t, 1, st.Words)
	assert.Equal(t, "kota kota,kot,subst:sg:gen:m1; kota,kot,subst:sg:acc:m1\n", out.String())
}
