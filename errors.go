package morfeusz

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Error kinds returned by the analyzer. Test for them with errors.Is;
// concrete errors wrap or mark one of these.
var (
	// ErrTokenTooLong is returned when a token reaches the configured
	// maximum length. No lexicon work is done for such a token.
	ErrTokenTooLong = errors.New("token too long")

	// ErrGraphOverflow is returned when the interpretation graph of a token
	// holds more segments than the caller allowed. The concrete error is a
	// *GraphOverflowError.
	ErrGraphOverflow = errors.New("interpretation graph overflow")

	// ErrLoad is returned when a lexicon cannot be read or parsed.
	ErrLoad = errors.New("lexicon load failed")

	// ErrNotReady is returned when analysis is attempted without a lexicon.
	ErrNotReady = errors.New("lexicon not loaded")

	// ErrInvalidOption is returned by SetOption for unknown option codes
	// and out-of-range values.
	ErrInvalidOption = errors.New("invalid option")

	// ErrInvalidToken is returned when token bytes are not valid in the
	// configured encoding.
	ErrInvalidToken = errors.New("invalid token encoding")
)

// GraphOverflowError reports how many segments a token needs.
type GraphOverflowError struct {
	// Needed is the number of segments the full result would contain.
	// It saturates at math.MaxInt for pathological graphs.
	Needed int
	// Capacity is the limit the caller passed in.
	Capacity int
}

func (e *GraphOverflowError) Error() string {
	return fmt.Sprintf("interpretation graph overflow: %d segments needed, capacity %d", e.Needed, e.Capacity)
}

// Is makes errors.Is(err, ErrGraphOverflow) hold for overflow errors.
func (e *GraphOverflowError) Is(target error) bool {
	return target == ErrGraphOverflow
}

// loadErrorf wraps cause (which may be nil) as an ErrLoad.
func loadErrorf(cause error, format string, args ...any) error {
	if cause == nil {
		return errors.Mark(errors.Newf(format, args...), ErrLoad)
	}
	return errors.Mark(errors.Wrapf(cause, format, args...), ErrLoad)
}
