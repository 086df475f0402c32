package morfeusz

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Version is the engine version reported by About.
const Version = "1.3.0"

const aboutText = "Morfeusz-Go: słownikowy analizator morfologiczny\n" +
	"Dictionary-based morphological analysis engine, version " + Version + "\n" +
	"Lexicon format: morfeusz text format, version 1"

// About returns static version information about the engine.
func About() string {
	return aboutText
}

// AboutBytes returns About encoded in ISO-8859-2, the 8-bit encoding
// boundary layers have always received this text in.
func AboutBytes() []byte {
	return latin2(About())
}

// AboutBytes returns Analyzer.About encoded in ISO-8859-2. Characters the
// encoding lacks are replaced.
func (a *Analyzer) AboutBytes() []byte {
	return latin2(a.About())
}

func latin2(s string) []byte {
	out, err := encoding.ReplaceUnsupported(charmap.ISO8859_2.NewEncoder()).String(s)
	if err != nil {
		// Only malformed UTF-8 gets here.
		return []byte(s)
	}
	return []byte(out)
}
