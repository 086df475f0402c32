package morfeusz

import (
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, DefaultOptions(), r.Snapshot())

	tests := []struct {
		code OptionCode
		want int
	}{
		{OptEncoding, int(EncodingUTF8)},
		{OptUnknownWords, 1},
		{OptCaseSensitive, 0},
		{OptMaxTokenLength, DefaultMaxTokenLength},
	}
	for _, tt := range tests {
		got, err := r.Option(tt.code)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "option %d", tt.code)
	}
}

func TestSetOption(t *testing.T) {
	r := NewRegistry()

	prev, err := r.SetOption(OptEncoding, int(EncodingCP1250))
	require.NoError(t, err)
	assert.Equal(t, int(EncodingUTF8), prev)

	prev, err = r.SetOption(OptEncoding, int(EncodingISO8859_2))
	require.NoError(t, err)
	assert.Equal(t, int(EncodingCP1250), prev)

	prev, err = r.SetOption(OptMaxTokenLength, 100)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTokenLength, prev)
	assert.Equal(t, 100, r.Snapshot().MaxTokenLength)
}

func TestSetOptionInvalid(t *testing.T) {
	r := NewRegistry()
	before := r.Snapshot()

	tests := []struct {
		name  string
		code  OptionCode
		value int
	}{
		{"unknown code", 99, 1},
		{"unknown encoding", OptEncoding, 1251},
		{"non-boolean", OptUnknownWords, 2},
		{"negative boolean", OptCaseSensitive, -1},
		{"tiny max length", OptMaxTokenLength, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.SetOption(tt.code, tt.value)
			assert.True(t, errors.Is(err, ErrInvalidOption), "got %v", err)
			assert.Equal(t, before, r.Snapshot())
		})
	}

	_, err := r.Option(42)
	assert.True(t, errors.Is(err, ErrInvalidOption))
}

func TestSharedRegistry(t *testing.T) {
	lex := loadTestLexicon(t)
	r := NewRegistry()
	a1, err := New(lex, WithRegistry(r))
	require.NoError(t, err)
	a2, err := New(lex, WithRegistry(r))
	require.NoError(t, err)
	assert.Same(t, a1.Options(), a2.Options())

	_, err = r.SetOption(OptUnknownWords, 0)
	require.NoError(t, err)
	for _, a := range []*Analyzer{a1, a2} {
		segs, err := a.AnalyzeString("zzqx", NoLimit)
		require.NoError(t, err)
		assert.Empty(t, segs)
	}

	// Explicit options bypass the registry.
	segs, err := a1.AnalyzeWith(DefaultOptions(), []byte("zzqx"), NoLimit)
	require.NoError(t, err)
	assert.Len(t, segs, 1)
}

// TestOptionIsolation changes options while analyses run. Every analysis
// works from one snapshot, so results always agree with some published
// state.
func TestOptionIsolation(t *testing.T) {
	lex := loadTestLexicon(t)
	a, err := New(lex)
	require.NoError(t, err)

	stop := make(chan struct{})
	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		for flip := 0; ; flip ^= 1 {
			select {
			case <-stop:
				return
			default:
			}
			_, _ = a.Options().SetOption(OptUnknownWords, flip)
		}
	}()

	var readers sync.WaitGroup
	for w := 0; w < 4; w++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for i := 0; i < 500; i++ {
				opts := a.Options().Snapshot()
				segs, err := a.AnalyzeWith(opts, []byte("zzqx"), 1)
				if !assert.NoError(t, err) {
					return
				}
				if opts.UnknownWords {
					assert.Len(t, segs, 1)
				} else {
					assert.Empty(t, segs)
				}

				segs, err = a.Analyze([]byte("kota"), NoLimit)
				if assert.NoError(t, err) {
					assert.Len(t, segs, 2)
				}
			}
		}()
	}
	readers.Wait()
	close(stop)
	writer.Wait()
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		valid bool
	}{
		{"defaults", DefaultOptions(), true},
		{"zero", Options{}, false},
		{"policy only", Options{UnknownWords: true}, false},
		{"no max length", Options{Encoding: EncodingUTF8}, false},
		{"no encoding", Options{MaxTokenLength: 64}, false},
		{"max length one", Options{Encoding: EncodingCP852, MaxTokenLength: 1}, false},
		{"complete literal", Options{Encoding: EncodingCP1250, MaxTokenLength: 2}, true},
	}
	lex := loadTestLexicon(t)
	a, err := New(lex)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			_, regErr := NewRegistryWith(tt.opts)
			_, analyzeErr := a.AnalyzeWith(tt.opts, []byte("k"), NoLimit)
			if tt.valid {
				assert.NoError(t, err)
				assert.NoError(t, regErr)
				assert.NoError(t, analyzeErr)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidOption), "got %v", err)
			assert.True(t, errors.Is(regErr, ErrInvalidOption), "got %v", regErr)
			assert.True(t, errors.Is(analyzeErr, ErrInvalidOption), "got %v", analyzeErr)
			assert.False(t, errors.Is(analyzeErr, ErrTokenTooLong))
		})
	}
}

func TestNewRegistryWith(t *testing.T) {
	opts := DefaultOptions()
	opts.CaseSensitive = true
	r, err := NewRegistryWith(opts)
	require.NoError(t, err)
	assert.Equal(t, opts, r.Snapshot())
}
