package morfeusz

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	// formatName and formatVersion identify the lexicon text format in its
	// mandatory "@format" header.
	formatName    = "morfeusz"
	formatVersion = 1

	maxLineLength = 1 << 20
)

// LoadLexicon reads a lexicon file. Files ending in ".gz" or ".zst" are
// decompressed on the fly. Any failure is reported as ErrLoad.
func LoadLexicon(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, loadErrorf(err, "open %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	switch filepath.Ext(path) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, loadErrorf(err, "open %s", path)
		}
		defer gz.Close()
		r = gz
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, loadErrorf(err, "open %s", path)
		}
		defer zr.Close()
		r = zr
	}

	lex, err := ReadLexicon(r)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return lex, nil
}

// ReadLexicon parses a lexicon in text format from r.
//
// The stream starts with a "@format morfeusz 1" header. Lines starting
// with "!" are comments, "@about" lines accumulate descriptive text, and
// every other non-empty line is an entry of three or four tab-separated
// fields: form, lemma, tag and an optional comma-separated flag list.
func ReadLexicon(r io.Reader) (*Lexicon, error) {
	b := newLexiconBuilder()
	var about []string
	sawHeader := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "!") {
			continue
		}

		if strings.HasPrefix(line, "@") {
			directive, arg, _ := strings.Cut(line[1:], " ")
			switch directive {
			case "format":
				if err := checkFormat(arg); err != nil {
					return nil, loadErrorf(err, "line %d", lineNo)
				}
				sawHeader = true
			case "about":
				about = append(about, arg)
			default:
				return nil, loadErrorf(nil, "line %d: unknown directive @%s", lineNo, directive)
			}
			continue
		}

		if !sawHeader {
			return nil, loadErrorf(nil, "line %d: entry before @format header", lineNo)
		}
		e, err := parseEntry(line)
		if err != nil {
			return nil, loadErrorf(err, "line %d", lineNo)
		}
		if err := b.add(e); err != nil {
			return nil, loadErrorf(err, "line %d", lineNo)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, loadErrorf(err, "read lexicon")
	}
	if !sawHeader {
		return nil, loadErrorf(nil, "missing @format header")
	}

	b.about = strings.Join(about, "\n")
	return b.build(), nil
}

// checkFormat validates the argument of the @format directive.
func checkFormat(arg string) error {
	fields := strings.Fields(arg)
	if len(fields) != 2 || fields[0] != formatName {
		return errors.Newf("bad @format header %q", arg)
	}
	v, err := strconv.Atoi(fields[1])
	if err != nil {
		return errors.Newf("bad @format version %q", fields[1])
	}
	if v != formatVersion {
		return errors.Newf("lexicon format version %d, want %d", v, formatVersion)
	}
	return nil
}

// parseEntry splits an entry line into its fields.
func parseEntry(line string) (Entry, error) {
	parts := strings.Split(line, "\t")
	if len(parts) < 3 || len(parts) > 4 {
		return Entry{}, errors.Newf("want 3 or 4 tab-separated fields, got %d", len(parts))
	}
	e := Entry{
		Form:  parts[0],
		Lemma: parts[1],
		Tag:   parts[2],
	}
	if len(parts) == 4 {
		f, err := ParseFlags(parts[3])
		if err != nil {
			return Entry{}, err
		}
		e.Flags = f
	}
	return e, nil
}

// validateEntry rejects entries the enumerator cannot use.
func validateEntry(e Entry) error {
	switch {
	case e.Form == "":
		return errors.New("empty form")
	case e.Lemma == "":
		return errors.Newf("empty lemma for %q", e.Form)
	case e.Tag == "":
		return errors.Newf("empty tag for %q", e.Form)
	}
	return nil
}
