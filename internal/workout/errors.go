package workout

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("workout not found")
	ErrCorruptData  = errors.New("corrupt workout data")
	ErrDuplicateID  = errors.New("workout id already exists")
)
