package envelope

import "errors"

var (
	ErrInvalidTarget       = errors.New("invalid target")
	ErrInvalidCommand      = errors.New("invalid command")
	ErrInvalidResponseType = errors.New("invalid response type")
	ErrInvalidDataShape    = errors.New("invalid data shape")
)
