package main

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cours-de-latin/morfeusz"
)

// envPrefix prefixes environment overrides: MORFEUSZ_ADDR, MORFEUSZ_CACHE_SIZE...
const envPrefix = "MORFEUSZ"

const defaultMaxCapacity = 4096

type config struct {
	Addr        string
	Lexicon     string
	CacheSize   int
	MaxCapacity int
	CORSOrigins []string
	LogLevel    string

	Encoding       morfeusz.Encoding
	UnknownWords   bool
	CaseSensitive  bool
	MaxTokenLength int
}

// loadConfig resolves the configuration from flags, MORFEUSZ_* environment
// variables and an optional YAML file, in that order of precedence.
func loadConfig(args []string) (config, error) {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	fs.String("config", "", "optional YAML configuration file")
	fs.String("addr", ":8080", "listen address")
	fs.String("lexicon", "lexicon.txt", "path to the lexicon file (.gz and .zst accepted)")
	fs.Int("cache-size", 4096, "number of cached analyses, 0 disables the cache")
	fs.Int("max-capacity", defaultMaxCapacity, "segments one token may produce; also the default request capacity")
	fs.StringSlice("cors-origins", []string{"*"}, "allowed CORS origins")
	fs.String("log-level", "info", "log level")
	fs.String("encoding", "utf-8", "default token encoding for the options registry")
	fs.Bool("unknown-words", true, "emit a segment for unknown words")
	fs.Bool("case-sensitive", false, "match lexicon forms case-sensitively")
	fs.Int("max-token-length", morfeusz.DefaultMaxTokenLength, "token length in bytes that is rejected")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return config{}, errors.Wrap(err, "bind flags")
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return config{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg config
	var err error
	cfg.Addr = v.GetString("addr")
	cfg.Lexicon = v.GetString("lexicon")
	cfg.LogLevel = v.GetString("log-level")
	cfg.CORSOrigins = cast.ToStringSlice(splitList(v.Get("cors-origins")))
	if cfg.CacheSize, err = cast.ToIntE(v.Get("cache-size")); err != nil {
		return config{}, errors.Wrap(err, "cache-size")
	}
	if cfg.CacheSize < 0 {
		return config{}, errors.Newf("cache-size must not be negative, got %d", cfg.CacheSize)
	}
	if cfg.MaxCapacity, err = cast.ToIntE(v.Get("max-capacity")); err != nil {
		return config{}, errors.Wrap(err, "max-capacity")
	}
	if cfg.MaxCapacity < 1 {
		return config{}, errors.Newf("max-capacity must be positive, got %d", cfg.MaxCapacity)
	}
	if cfg.UnknownWords, err = cast.ToBoolE(v.Get("unknown-words")); err != nil {
		return config{}, errors.Wrap(err, "unknown-words")
	}
	if cfg.CaseSensitive, err = cast.ToBoolE(v.Get("case-sensitive")); err != nil {
		return config{}, errors.Wrap(err, "case-sensitive")
	}
	if cfg.MaxTokenLength, err = cast.ToIntE(v.Get("max-token-length")); err != nil {
		return config{}, errors.Wrap(err, "max-token-length")
	}
	if cfg.Encoding, err = morfeusz.ParseEncoding(v.GetString("encoding")); err != nil {
		return config{}, err
	}
	return cfg, nil
}

// splitList accepts both list values (flags, YAML) and comma-separated
// strings (environment).
func splitList(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// registry builds the options registry the analyzer starts with.
func (c config) registry() (*morfeusz.Registry, error) {
	r := morfeusz.NewRegistry()
	settings := []struct {
		code  morfeusz.OptionCode
		value int
	}{
		{morfeusz.OptEncoding, int(c.Encoding)},
		{morfeusz.OptUnknownWords, boolInt(c.UnknownWords)},
		{morfeusz.OptCaseSensitive, boolInt(c.CaseSensitive)},
		{morfeusz.OptMaxTokenLength, c.MaxTokenLength},
	}
	for _, s := range settings {
		if _, err := r.SetOption(s.code, s.value); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
