package model

import (
	"errors"
	"fmt"
)

// ErrValidation is returned when a request is missing required fields
var ErrValidation = errors.New("missing required fields: content and type")

// ErrUnsupportedType is returned for an unknown content type
var ErrUnsupportedType = errors.New("unsupported content type")

// FetchError reports a failure of an external content-fetch collaborator
type FetchError struct {
	Kind   ContentType // url or reddit
	Target string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to analyze %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
