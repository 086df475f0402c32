package morfeusz

import (
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
)

// Encoding is a byte encoding for tokens, identified by the codes the
// OptEncoding option accepts.
type Encoding int

const (
	EncodingUTF8      Encoding = 8
	EncodingISO8859_2 Encoding = 88592
	EncodingCP1250    Encoding = 1250
	EncodingCP852     Encoding = 852
)

// charmaps maps the 8-bit encodings to their code pages.
var charmaps = map[Encoding]*charmap.Charmap{
	EncodingISO8859_2: charmap.ISO8859_2,
	EncodingCP1250:    charmap.Windows1250,
	EncodingCP852:     charmap.CodePage852,
}

// Valid reports whether e is a supported encoding.
func (e Encoding) Valid() bool {
	if e == EncodingUTF8 {
		return true
	}
	_, ok := charmaps[e]
	return ok
}

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf-8"
	case EncodingISO8859_2:
		return "iso-8859-2"
	case EncodingCP1250:
		return "windows-1250"
	case EncodingCP852:
		return "ibm852"
	}
	return "unknown"
}

// ParseEncoding maps an encoding name as accepted by String, or a common
// alias, to its Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "utf-8", "utf8", "UTF-8":
		return EncodingUTF8, nil
	case "iso-8859-2", "iso8859-2", "latin2", "ISO-8859-2":
		return EncodingISO8859_2, nil
	case "windows-1250", "cp1250", "Cp1250":
		return EncodingCP1250, nil
	case "ibm852", "cp852", "Cp852":
		return EncodingCP852, nil
	}
	return 0, errors.Wrapf(ErrInvalidOption, "unknown encoding %q", name)
}

// textEncoding returns the x/text encoding for e.
func (e Encoding) textEncoding() encoding.Encoding {
	if cm, ok := charmaps[e]; ok {
		return cm
	}
	return encoding.Nop
}

// Decode converts b from encoding e to a UTF-8 string.
func (e Encoding) Decode(b []byte) (string, error) {
	if e == EncodingUTF8 {
		if !utf8.Valid(b) {
			return "", errors.Wrap(ErrInvalidToken, "malformed utf-8")
		}
		return string(b), nil
	}
	if !e.Valid() {
		return "", errors.Wrapf(ErrInvalidOption, "unknown encoding %d", int(e))
	}
	out, err := e.textEncoding().NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "decode %s", e), ErrInvalidToken)
	}
	return string(out), nil
}

// Encode converts a UTF-8 string to encoding e. Characters the encoding
// cannot represent are an error.
func (e Encoding) Encode(s string) ([]byte, error) {
	if e == EncodingUTF8 {
		return []byte(s), nil
	}
	if !e.Valid() {
		return nil, errors.Wrapf(ErrInvalidOption, "unknown encoding %d", int(e))
	}
	out, err := e.textEncoding().NewEncoder().String(s)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", e)
	}
	return []byte(out), nil
}

// lowerLemma lowercases an unknown token for use as its lemma. A Caser
// keeps state, so one is made per call.
func lowerLemma(s string) string {
	return cases.Lower(language.Polish).String(s)
}
