package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPoiNotFound       = errors.New("poi not found")
	ErrPermissionDenied  = errors.New("location permission denied")
	ErrNoCategories      = errors.New("no categories configured")
	ErrNoLocation        = errors.New("no location observed yet")
	ErrMissingAPIKey     = errors.New("places api key is not configured")
	ErrNotManualPoi      = errors.New("poi is not a manual poi")
	ErrInvalidRemotePois = errors.New("remote poi set contains non-remote entries")
)

// NetworkError is a transport failure talking to the places API.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("places network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UpstreamError is a non-2xx answer from the places API.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("places upstream error: status %d", e.Status)
	}

	return fmt.Sprintf("places upstream error: status %d: %s", e.Status, e.Body)
}

type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("persistence %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
