package fdisk

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// FormatError is the error type returned by every package in this module. It
// always unwraps to one of the sentinel errors below, so callers can test the
// failure category with [errors.Is] regardless of how much context was added.
type FormatError interface {
	error
	WithMessage(message string) FormatError
	Wrap(err error) FormatError
}

type baseFormatError string

const rootError = baseFormatError("")

// ErrDeviceTooSmall means the device can't hold the partition offset plus the
// reserved sectors. Nothing has been written when this is returned.
var ErrDeviceTooSmall = rootError.WithMessage("Device too small for a FAT32 partition")

// ErrDeviceUnavailable means the storage device couldn't be opened or its size
// couldn't be determined.
var ErrDeviceUnavailable = rootError.WithMessage("Device unavailable")

// ErrWriteFailed is returned when writing a sector fails. The device may be
// left partially formatted.
var ErrWriteFailed = rootError.WithMessage("Sector write failed")

// ErrEraseFailed is returned when zero-filling a sector range fails. The
// device may be left partially formatted.
var ErrEraseFailed = rootError.WithMessage("Sector erase failed")

// ErrGeometryInfeasible means no self-consistent layout could be found for the
// device even though it passed the minimum size check.
var ErrGeometryInfeasible = rootError.WithMessage("No feasible FAT32 geometry")

var ErrInvalidArgument = rootError.WithMessage("Invalid argument")
var ErrNotConfirmed = rootError.WithMessage("Operation not confirmed")
var ErrOutOfRange = rootError.WithMessage("Sector out of range")

func (e baseFormatError) Error() string {
	return string(e)
}

func (e baseFormatError) WithMessage(message string) FormatError {
	return customFormatError{
		message:       message,
		originalError: e,
	}
}

func (e baseFormatError) Wrap(err error) FormatError {
	return customFormatError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customFormatError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customFormatError) Error() string {
	return e.message
}

func (e customFormatError) WithMessage(message string) FormatError {
	return customFormatError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customFormatError) Wrap(err error) FormatError {
	return customFormatError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customFormatError) Unwrap() error {
	return e.originalError
}
