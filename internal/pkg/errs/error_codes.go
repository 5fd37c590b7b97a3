/*
Package errs provides the application error type and its numeric error codes.

Codes are shared by the session service, the REST client, the companion server and the CLI,
so a failure keeps the same identity from the remote API up to the user-facing message.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body is not valid JSON.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained data after the JSON document.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Post and Profile Content Errors
const (
	// ErrPostContentRequired indicates a post was submitted without content.
	ErrPostContentRequired = 2101

	// ErrInvalidPostID indicates a post identifier that is not a positive integer.
	ErrInvalidPostID = 2102

	// ErrInvalidMonth indicates a month filter outside 1-12.
	ErrInvalidMonth = 2103
)

// 3xxx: Session Errors
const (
	// ErrUnauthorized indicates there is no valid session for the request.
	ErrUnauthorized = 3001

	// ErrSessionExpired indicates the stored token was present but stale and has been evicted.
	ErrSessionExpired = 3002

	// ErrAlreadyLoggedIn indicates a login or registration attempt while a valid session exists.
	ErrAlreadyLoggedIn = 3003

	// ErrMissingCredentials indicates an empty email or password.
	ErrMissingCredentials = 3004
)

// 4xxx: Remote API Errors
const (
	// ErrNetwork indicates the remote API could not be reached.
	ErrNetwork = 4000

	// ErrBadRequest maps an HTTP 400 from the remote API.
	ErrBadRequest = 4001

	// ErrForbidden maps an HTTP 403 from the remote API.
	ErrForbidden = 4003

	// ErrServerError maps an HTTP 500 from the remote API.
	ErrServerError = 4005

	// ErrUnknownStatus maps any other HTTP error status from the remote API.
	ErrUnknownStatus = 4009

	// ErrInvalidResponse indicates a success response whose body failed decoding or validation.
	ErrInvalidResponse = 4010
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal error.
	ErrUnknown = 5000

	// ErrSessionStore indicates the token slot could not be read or written.
	ErrSessionStore = 5001
)
