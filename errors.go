package dqb

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured       = errors.New("undefined or invalid table")
	ErrUnsupportedOperator = errors.New("unsupported operator")
)

// UnsupportedOperatorError is raised when a typed operator value falls
// outside the set of values its category defines, for example
// JoinOperator(99). Category is the operator kind ("join", "comparison",
// "inclusion", "null", "range", "string", "order direction") and Value is
// the offending value as text.
type UnsupportedOperatorError struct {
	Category string
	Value    string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported %s operator: %s", e.Category, e.Value)
}

// Is reports true for ErrUnsupportedOperator so callers can use errors.Is.
func (e *UnsupportedOperatorError) Is(target error) bool {
	return target == ErrUnsupportedOperator
}

func unsupported(category string, value interface{}) *UnsupportedOperatorError {
	return &UnsupportedOperatorError{Category: category, Value: fmt.Sprint(value)}
}
