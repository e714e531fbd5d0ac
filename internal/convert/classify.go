package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"

	"heiconv/internal/codec"
)

// ErrFinalize marks failures while publishing a staging artifact to its
// final path. It is checked before the filesystem sentinels below so a
// permission error during finalize still reports as a finalize failure,
// matching the distinct kind the summary promises.
var ErrFinalize = errors.New("finalize failed")

// ClassifyFailure maps a raw failure signal from the codec gateway or the
// finalizer into the closed taxonomy, with a human-readable detail.
func ClassifyFailure(err error) (FailureKind, string) {
	if err == nil {
		return FailureUnknown, ""
	}

	detail := strings.TrimSpace(err.Error())

	switch {
	case errors.Is(err, ErrFinalize):
		return FailureFinalize, detail
	case errors.Is(err, fs.ErrPermission):
		return FailurePermissionDenied, detail
	case errors.Is(err, syscall.ENOSPC):
		return FailureDiskFull, detail
	case errors.Is(err, codec.ErrCorruptInput):
		return FailureCorruptInput, detail
	}

	var native *codec.NativeError
	if errors.As(err, &native) {
		return FailureUnknown, fmt.Sprintf("codec exit code %d: %s", native.ExitCode, native.Output)
	}
	return FailureUnknown, detail
}
