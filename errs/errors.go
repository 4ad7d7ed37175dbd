// Package errs defines the sentinel errors shared across the javaseis packages.
//
// Errors come in four kinds mirroring the failure classes of the format
// engine; I/O failures are not wrapped and surface as the underlying os
// errors. Fine-grained sentinels wrap their kind, so callers can match either
// the specific error or the whole class with errors.Is:
//
//	if errors.Is(err, errs.ErrReadOnly) { ... }
//	if errors.Is(err, errs.ErrPrecondition) { ... }
package errs

import (
	"errors"
	"fmt"
)

// Error kinds. Every sentinel below wraps exactly one of these.
var (
	// ErrPrecondition reports an API call that violates a documented
	// precondition: bad mode, bad dimensionality, writing to a read-only
	// dataset, and similar caller mistakes.
	ErrPrecondition = errors.New("precondition violated")

	// ErrMalformedMetadata reports sidecar metadata that cannot be parsed or
	// is internally inconsistent.
	ErrMalformedMetadata = errors.New("malformed dataset metadata")

	// ErrNotFound reports a lookup by label or index that has no match.
	ErrNotFound = errors.New("not found")

	// ErrEnvironment reports an environment configuration inconsistent with
	// the dataset path, e.g. a data-home variable that is not a prefix of it.
	ErrEnvironment = errors.New("environment misconfigured")
)

var (
	ErrReadOnly             = fmt.Errorf("%w: dataset opened read-only", ErrPrecondition)
	ErrBadMode              = fmt.Errorf("%w: unknown open mode", ErrPrecondition)
	ErrBadDimensions        = fmt.Errorf("%w: dataset dimensionality must be 3..5", ErrPrecondition)
	ErrMissingAxisLengths   = fmt.Errorf("%w: axis lengths are required to create a dataset", ErrPrecondition)
	ErrUnknownTraceFormat   = fmt.Errorf("%w: unsupported trace format", ErrPrecondition)
	ErrPropertyConflict     = fmt.Errorf("%w: property add/rm cannot coexist with a full property list", ErrPrecondition)
	ErrFrameOutOfRange      = fmt.Errorf("%w: logical address outside the framework grid", ErrPrecondition)
	ErrOffGridAddress       = fmt.Errorf("%w: logical address not on the framework grid", ErrPrecondition)
	ErrFoldOutOfRange       = fmt.Errorf("%w: fold exceeds traces per frame", ErrPrecondition)
	ErrStringTooLong        = fmt.Errorf("%w: string exceeds property element count", ErrPrecondition)
	ErrElementCount         = fmt.Errorf("%w: value length does not match property element count", ErrPrecondition)
	ErrPropertyNotFound     = fmt.Errorf("%w: no trace property with that label", ErrNotFound)
	ErrDataPropertyNotFound = fmt.Errorf("%w: no data property with that label", ErrNotFound)
	ErrMissingParset        = fmt.Errorf("%w: required parset element missing", ErrMalformedMetadata)
	ErrInconsistentExtents  = fmt.Errorf("%w: extent sizes are inconsistent", ErrMalformedMetadata)
	ErrAxisProperty         = fmt.Errorf("%w: axis has no matching trace property", ErrMalformedMetadata)
)

// Preconditionf wraps ErrPrecondition with a formatted detail message.
func Preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrPrecondition}, args...)...)
}

// Malformedf wraps ErrMalformedMetadata with a formatted detail message.
func Malformedf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformedMetadata}, args...)...)
}

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

// Environmentf wraps ErrEnvironment with a formatted detail message.
func Environmentf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrEnvironment}, args...)...)
}
