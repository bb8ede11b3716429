package api

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteError is any non-2xx response from the backend, carrying the HTTP
// status and the server's message.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error: status %d", e.Status)
	}
	return fmt.Sprintf("remote error: status %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a RemoteError with status 401.
func IsUnauthorized(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == http.StatusUnauthorized
}
