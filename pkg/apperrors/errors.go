package apperrors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnknownTable  = errors.New("unknown table")
	ErrNoAgentAccess = errors.New("no domain agents assigned")
)
