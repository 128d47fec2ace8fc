package vocabulary

import (
	"errors"
	"fmt"
)

// ErrLoadFailed is matched by every *LoadError.
var ErrLoadFailed = errors.New("vocabulary load failed")

// ErrBlobNotFound is returned by a BlobStore that holds no saved vocabulary yet.
var ErrBlobNotFound = errors.New("vocabulary blob not found")

// LoadError represents a missing or corrupt persisted vocabulary.
// The vocabulary has already fallen back to the base taxonomy when it is returned.
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vocabulary load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("vocabulary load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrLoadFailed) match any LoadError.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoadFailed
}
