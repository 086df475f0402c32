package main

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/cours-de-latin/morfeusz"
	"github.com/cours-de-latin/morfeusz/tagset"
)

// demo analyzes the words of an input stream and prints one line per word:
// the word, then "part,lemma,tag" for every segment, separated by "; ".
type demo struct {
	analyzer  *morfeusz.Analyzer
	encoding  morfeusz.Encoding
	parseTags bool
	log       *zap.Logger
}

type stats struct {
	Words   int
	Elapsed time.Duration
}

// WordsPerSecond is the analysis throughput.
func (s stats) WordsPerSecond() int {
	if s.Elapsed <= 0 {
		return 0
	}
	return int(float64(s.Words) / s.Elapsed.Seconds())
}

// run reads whitespace-separated words from r, encoded in d.encoding, and
// writes the analyses to w in UTF-8. Words that fail to analyze are
// logged and printed with "?".
func (d *demo) run(r io.Reader, w io.Writer) (stats, error) {
	start := time.Now()
	in := bufio.NewScanner(r)
	in.Buffer(make([]byte, 0, 64*1024), 1<<20)
	in.Split(bufio.ScanWords)
	out := bufio.NewWriter(w)

	var st stats
	for in.Scan() {
		raw := in.Bytes()
		word, err := d.encoding.Decode(raw)
		if err != nil {
			d.log.Warn("skipping undecodable word", zap.Binary("word", raw), zap.Error(err))
			continue
		}
		st.Words++
		out.WriteString(word)
		out.WriteByte(' ')

		segs, err := d.analyzer.Analyze(raw, morfeusz.NoLimit)
		if err != nil {
			d.log.Warn("analysis failed", zap.String("word", word), zap.Error(err))
		}
		if len(segs) == 0 {
			out.WriteByte('?')
		}
		for i, s := range segs {
			if i > 0 {
				out.WriteString("; ")
			}
			fmt.Fprintf(out, "%s,%s,%s", s.Form, s.Lemma, s.Tag)
			if d.parseTags {
				d.checkTag(word, s.Tag)
			}
		}
		out.WriteByte('\n')
	}
	st.Elapsed = time.Since(start)
	if err := in.Err(); err != nil {
		// Keep the words analyzed before the failure.
		return st, errors.CombineErrors(err, out.Flush())
	}
	return st, out.Flush()
}

// checkTag logs tags the tagset does not accept. The unknown-word tag is
// not part of the tagset and is skipped.
func (d *demo) checkTag(word, tag string) {
	if tag == morfeusz.TagUnknown {
		return
	}
	if _, err := tagset.Parse(tag); err != nil {
		d.log.Warn("could not parse tag",
			zap.String("word", word),
			zap.String("tag", tag),
			zap.Error(err))
	}
}
