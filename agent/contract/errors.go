package contract

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrUserRecoverable = errors.New("caller can recover")
	ErrExternal        = errors.New("external service failed")
	ErrConfiguration   = errors.New("configuration missing")
	ErrUnknownTool     = errors.New("unknown tool")
)
