// Command morfdemo analyzes the words of a file, or of standard input, and
// prints every interpretation of each word.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cours-de-latin/morfeusz"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	lexicon       string
	encoding      string
	version       bool
	parseTags     bool
	caseSensitive bool
	noUnknown     bool
}

func newRootCommand() *cobra.Command {
	var o rootOptions
	cmd := &cobra.Command{
		Use:           "morfdemo [input file] [output file]",
		Short:         "Print the morphological analysis of every word in the input",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, o, args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.lexicon, "lexicon", "l", os.Getenv("MORFEUSZ_LEXICON"), "lexicon file (.gz and .zst accepted)")
	f.StringVarP(&o.encoding, "encoding", "e", "utf-8", "input encoding: utf-8, iso-8859-2, windows-1250 or ibm852")
	f.BoolVar(&o.version, "version", false, "print version information and exit")
	f.BoolVar(&o.parseTags, "parsetags", false, "report tags the tagset cannot parse")
	f.BoolVar(&o.caseSensitive, "case-sensitive", false, "match lexicon forms case-sensitively")
	f.BoolVar(&o.noUnknown, "no-unknown", false, "print '?' instead of an unknown-word segment")
	return cmd
}

// newStderrLogger logs human-readable lines to w.
func newStderrLogger(w io.Writer) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zapcore.InfoLevel)
	return zap.New(core)
}

func runDemo(cmd *cobra.Command, o rootOptions, args []string) (err error) {
	stderr := cmd.ErrOrStderr()
	log := newStderrLogger(stderr)
	defer func() { _ = log.Sync() }()

	if o.version && o.lexicon == "" {
		fmt.Fprintln(cmd.OutOrStdout(), morfeusz.About())
		return nil
	}
	if o.lexicon == "" {
		return errors.New("no lexicon: pass --lexicon or set MORFEUSZ_LEXICON")
	}
	enc, err := morfeusz.ParseEncoding(o.encoding)
	if err != nil {
		return err
	}

	lex, err := morfeusz.LoadLexicon(o.lexicon)
	if err != nil {
		return err
	}
	reg := morfeusz.NewRegistry()
	for code, v := range map[morfeusz.OptionCode]int{
		morfeusz.OptEncoding:      int(enc),
		morfeusz.OptCaseSensitive: boolInt(o.caseSensitive),
		morfeusz.OptUnknownWords:  boolInt(!o.noUnknown),
	} {
		if _, err := reg.SetOption(code, v); err != nil {
			return err
		}
	}
	analyzer, err := morfeusz.New(lex, morfeusz.WithRegistry(reg))
	if err != nil {
		return err
	}
	if o.version {
		fmt.Fprintln(cmd.OutOrStdout(), analyzer.About())
		return nil
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer f.Close()
		in = f
	}
	log.Info("using input encoding", zap.Stringer("encoding", enc))
	if len(args) == 0 {
		log.Info("reading from standard input")
	}

	var out io.Writer = cmd.OutOrStdout()
	if len(args) > 1 {
		f, cerr := os.Create(args[1])
		if cerr != nil {
			return errors.Wrap(cerr, "create output")
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = errors.Wrap(cerr, "close output")
			}
		}()
		out = f
	}

	d := &demo{analyzer: analyzer, encoding: enc, parseTags: o.parseTags, log: log}
	st, err := d.run(in, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr, "Analyzed: %d words in %d milliseconds.\n", st.Words, st.Elapsed.Milliseconds())
	fmt.Fprintf(stderr, "%d words per second.\n", st.WordsPerSecond())
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
