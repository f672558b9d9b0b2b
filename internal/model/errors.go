package model

import "errors"

var (
	// ErrEmptySeries is returned when a price series has no bars.
	ErrEmptySeries = errors.New("price series is empty")
	// ErrDegenerateArithmetic is returned when a plan would divide by zero.
	ErrDegenerateArithmetic = errors.New("degenerate price arithmetic")
	// ErrMissingBasis is returned when a sell plan is requested without a basis price.
	ErrMissingBasis = errors.New("basis price is required for a sell plan")
	// ErrInvalidBasis is returned for a basis price that is not positive.
	ErrInvalidBasis = errors.New("basis price must be positive")
)
