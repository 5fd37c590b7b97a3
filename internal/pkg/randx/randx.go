/*
Package randx generates identifiers attached to outgoing API requests.
*/
package randx

import "github.com/google/uuid"

// RequestID returns a new UUID v4 string used as the X-Request-ID of an outgoing API call.
func RequestID() string {
	return uuid.New().String()
}

// IsValidRequestID reports whether id is a well-formed UUID, so a caller-supplied
// request ID can be forwarded instead of replaced.
func IsValidRequestID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
