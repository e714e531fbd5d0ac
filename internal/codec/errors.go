package codec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCorruptInput marks conversions that failed because the source file
// could not be decoded.
var ErrCorruptInput = errors.New("corrupt input")

// ErrUnavailable marks a failed capability probe: the codec tool is missing
// or cannot produce the requested format on this system.
var ErrUnavailable = errors.New("codec capability unavailable")

// NativeError carries a raw failure signal from the codec tool that did not
// match any known condition. The pipeline surfaces it verbatim.
type NativeError struct {
	ExitCode int
	Output   string
}

func (e *NativeError) Error() string {
	output := strings.TrimSpace(e.Output)
	if output == "" {
		return fmt.Sprintf("codec exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("codec exited with code %d: %s", e.ExitCode, output)
}
