package errors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrModelExists         = errors.New("model metadata already exists")
	ErrAccessDenied        = errors.New("access denied")
	ErrTrainingNotFinished = errors.New("training not finished")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrEmptyKey            = errors.New("empty key")
	ErrInvalidData         = errors.New("invalid data type")
)
