package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrNotConnected    = errors.New("gateway: not connected")
	ErrUnexpectedHello = errors.New("gateway: expected hello")
)

// APIError - ответ REST API Discord с не-2xx кодом.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord api %s %s: %d %s", e.Method, e.Path, e.Status, e.Body)
}
