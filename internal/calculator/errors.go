package calculator

import "errors"

var (
	ErrInvalidPeriod     = errors.New("period must be positive")
	ErrInsufficientData  = errors.New("not enough data")
	ErrUndefinedBaseline = errors.New("baseline is zero")
)
