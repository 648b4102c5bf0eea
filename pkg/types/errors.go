package types

import (
	"errors"
	"fmt"
)

// Lookup and uniqueness errors.
var (
	ErrNotFound            = errors.New("entity not found")
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	ErrDuplicateName       = errors.New("duplicate name")
	ErrMalformedIdentifier = errors.New("malformed identifier")
	ErrInvalidName         = errors.New("invalid name")
	ErrIndexOutOfRange     = errors.New("index out of range")
)

// ErrStorageCorrupted is matched by every *CorruptedError.
var ErrStorageCorrupted = errors.New("storage corrupted")

// NotFoundError reports a lookup miss. Key is the identifier or name that was
// looked up. It matches ErrNotFound under errors.Is.
type NotFoundError struct {
	Kind Kind
	Key  string
}

// NewNotFound builds a NotFoundError for key.
func NewNotFound(kind Kind, key string) *NotFoundError {
	return &NotFoundError{Kind: kind, Key: key}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFoundKind reports whether err is a NotFoundError for the given kind.
func IsNotFoundKind(err error, kind Kind) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Kind == kind
}

// CorruptedError reports a persisted document that cannot be turned into a
// consistent collection. It matches ErrStorageCorrupted under errors.Is and
// unwraps to the underlying cause when there is one.
type CorruptedError struct {
	Reason string
	Err    error
}

// NewCorrupted builds a CorruptedError with an optional cause.
func NewCorrupted(reason string, cause error) *CorruptedError {
	return &CorruptedError{Reason: reason, Err: cause}
}

func (e *CorruptedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage corrupted: %s: %v", e.Reason, e.Err)
	}
	return "storage corrupted: " + e.Reason
}

func (e *CorruptedError) Unwrap() error { return e.Err }

// Is reports whether target is ErrStorageCorrupted.
func (e *CorruptedError) Is(target error) bool {
	return target == ErrStorageCorrupted
}
