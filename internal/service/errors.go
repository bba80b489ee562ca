package service

import "fmt"

// StorageError marks an infrastructure failure: the underlying store
// was unavailable, so the engine does not know what the verdict would
// have been. Handlers must surface it as a retry prompt and never as
// an access denial; conflating the two either locks out legitimate
// users or silently grants ungated access.
type StorageError struct {
	Op  string // which store operation failed, e.g. "access log append"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
