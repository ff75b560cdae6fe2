package errors

import "errors"

var (
	ErrFormatNotFound           = errors.New("platform format not found")
	ErrDuplicateFormat          = errors.New("duplicate platform format definition")
	ErrInvalidFormatDefinition  = errors.New("invalid platform format definition")
	ErrCatalogSourceUnavailable = errors.New("format catalog source unavailable")
)
