package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrForbiddenOperation  = errors.New("forbidden SQL operation")
	ErrUpstreamUnavailable = errors.New("upstream data source unavailable")
	ErrInvalidPreset       = errors.New("invalid preset")
	ErrInvalidRequest      = errors.New("invalid request")
)

// QueryError reports a failed ad-hoc query together with the query text.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v (query: %s)", e.Err, e.Query)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
