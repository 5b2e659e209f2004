package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern is returned by LIKE queries whose glob does not compile
	// or whose operand is not a string.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrUnsupportedOperator is returned for operators other than eq, lt, gt and like.
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrInvalidConfig       = errors.New("invalid index config")
	ErrBatchClosed         = errors.New("batch already committed or discarded")
	ErrIndexExists         = errors.New("index already exists")
	ErrIndexNotFound       = errors.New("index not found")
	ErrRecordNotFound      = errors.New("record not found")
	// ErrInvalidNumber is returned for decoded numbers that do not fit a float64.
	ErrInvalidNumber = errors.New("number out of range")
)

// IndexNotFoundError names the index that a lookup failed on.
type IndexNotFoundError struct {
	Name string
}

func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("index %s does not exist", e.Name)
}

// Is lets errors.Is match IndexNotFoundError against ErrIndexNotFound.
func (e *IndexNotFoundError) Is(target error) bool {
	return target == ErrIndexNotFound
}
