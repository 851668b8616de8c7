package api

import (
	"errors"
	"net/http"
)

// ErrNotFound is matched by any APIError carrying a 404 status
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the catalog or user service.
// Only the message is shown to users; the status drives sentinel matching.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
