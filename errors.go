package bptree

import (
	"errors"
	"fmt"
)

// ErrCorruption is returned (when Options.StrictCorruption is set) in place
// of silently degrading a node whose stored checksum does not match its
// payload. A missing key is not corruption; this is reserved for a present
// but unreadable record.
var ErrCorruption = errors.New("bptree: corrupt node record")

// ErrInvalidRange names the condition of requested bounds that cannot be
// satisfied (e.g. both GT and GTE set, or a lower bound above the upper
// bound). List itself never returns it: it logs a warning through
// Options.Logger and returns an empty result, per the package's
// soft-failure policy for range requests -- ErrInvalidRange exists so
// callers composing List programmatically have something to match on if
// they build their own bounds validation on top.
var ErrInvalidRange = errors.New("bptree: invalid range bounds")

// DataError reports a failure to decode a byte-level record (a node body or
// the metadata record), including enough of the offending payload to make
// the failure legible in logs without dumping arbitrarily large records.
type DataError struct {
	Data []byte
	Off  int
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{data, off, err, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v: (%d) %x", e.Msg, e.Err, n, e.Data)
		}
		return fmt.Sprintf("%s: (%d) %x", e.Msg, n, e.Data)
	}
	p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: (%d) %x...%x", e.Msg, e.Err, n, p, s)
	}
	return fmt.Sprintf("%s: (%d) %x...%x", e.Msg, n, p, s)
}
