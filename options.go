package morfeusz

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/atomic"
)

// OptionCode identifies an analysis option. The numeric values are stable
// and shared with boundary layers.
type OptionCode int

const (
	// OptEncoding selects the byte encoding of tokens passed to Analyze.
	// Values are Encoding constants.
	OptEncoding OptionCode = 1
	// OptUnknownWords selects the unknown-word policy: 1 emits a single
	// TagUnknown segment, 0 returns an empty result.
	OptUnknownWords OptionCode = 2
	// OptCaseSensitive selects case-sensitive matching (1) or case folding (0).
	OptCaseSensitive OptionCode = 3
	// OptMaxTokenLength is the token length, in bytes, at which Analyze
	// fails with ErrTokenTooLong.
	OptMaxTokenLength OptionCode = 4
)

// DefaultMaxTokenLength leaves room for 4095 bytes plus a terminator in
// fixed-size boundary buffers.
const DefaultMaxTokenLength = 4096

// Options is an immutable snapshot of analysis settings.
type Options struct {
	Encoding       Encoding
	UnknownWords   bool
	CaseSensitive  bool
	MaxTokenLength int
}

// DefaultOptions returns the settings a new Registry starts with.
func DefaultOptions() Options {
	return Options{
		Encoding:       EncodingUTF8,
		UnknownWords:   true,
		CaseSensitive:  false,
		MaxTokenLength: DefaultMaxTokenLength,
	}
}

// Get returns the integer value of option code.
func (o Options) Get(code OptionCode) (int, error) {
	switch code {
	case OptEncoding:
		return int(o.Encoding), nil
	case OptUnknownWords:
		return boolToInt(o.UnknownWords), nil
	case OptCaseSensitive:
		return boolToInt(o.CaseSensitive), nil
	case OptMaxTokenLength:
		return o.MaxTokenLength, nil
	}
	return 0, errors.Wrapf(ErrInvalidOption, "unknown option code %d", code)
}

// With returns a copy of o with option code set to value.
func (o Options) With(code OptionCode, value int) (Options, error) {
	switch code {
	case OptEncoding:
		enc := Encoding(value)
		if !enc.Valid() {
			return o, errors.Wrapf(ErrInvalidOption, "unknown encoding %d", value)
		}
		o.Encoding = enc
	case OptUnknownWords:
		b, err := intToBool(code, value)
		if err != nil {
			return o, err
		}
		o.UnknownWords = b
	case OptCaseSensitive:
		b, err := intToBool(code, value)
		if err != nil {
			return o, err
		}
		o.CaseSensitive = b
	case OptMaxTokenLength:
		if value < 2 {
			return o, errors.Wrapf(ErrInvalidOption, "max token length %d too small", value)
		}
		o.MaxTokenLength = value
	default:
		return o, errors.Wrapf(ErrInvalidOption, "unknown option code %d", code)
	}
	return o, nil
}

// Validate checks every field against the ranges SetOption enforces. A
// partially filled Options literal usually fails here: its Encoding and
// MaxTokenLength are zero.
func (o Options) Validate() error {
	for _, code := range []OptionCode{OptEncoding, OptMaxTokenLength} {
		v, err := o.Get(code)
		if err != nil {
			return err
		}
		if _, err := o.With(code, v); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(code OptionCode, v int) (bool, error) {
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.Wrapf(ErrInvalidOption, "option %d takes 0 or 1, got %d", code, v)
}

// Registry holds the current Options and publishes replacements
// atomically: a reader observes either the old or the new snapshot in full.
// The zero value is not usable; call NewRegistry.
type Registry struct {
	current *atomic.Pointer[Options]
}

// NewRegistry returns a registry holding DefaultOptions.
func NewRegistry() *Registry {
	opts := DefaultOptions()
	return &Registry{current: atomic.NewPointer(&opts)}
}

// NewRegistryWith returns a registry holding opts, or ErrInvalidOption
// when opts fails Validate.
func NewRegistryWith(opts Options) (*Registry, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Registry{current: atomic.NewPointer(&opts)}, nil
}

// Snapshot returns the options in effect now.
func (r *Registry) Snapshot() Options {
	return *r.current.Load()
}

// Option returns the current value of option code.
func (r *Registry) Option(code OptionCode) (int, error) {
	return r.Snapshot().Get(code)
}

// SetOption sets option code to value and returns the previous value. The
// change applies to analyses that take their snapshot afterwards. On error
// the registry is left unchanged.
func (r *Registry) SetOption(code OptionCode, value int) (int, error) {
	for {
		old := r.current.Load()
		prev, err := old.Get(code)
		if err != nil {
			return 0, err
		}
		next, err := old.With(code, value)
		if err != nil {
			return 0, err
		}
		if r.current.CompareAndSwap(old, &next) {
			return prev, nil
		}
	}
}
