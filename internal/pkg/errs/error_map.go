package errs

import "net/http"

// errorMap holds the template for every code. Messages containing verbs are formatted with
// the details passed to NewError. A zero Status means the error is reported with HTTP 200
// and the business code carries the failure.
var errorMap = map[int]CustomError{
	// 1xxx
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx
	ErrPostContentRequired: {Code: ErrPostContentRequired, Message: "Post must have content."},
	ErrInvalidPostID:       {Code: ErrInvalidPostID, Message: "Invalid post id."},
	ErrInvalidMonth:        {Code: ErrInvalidMonth, Message: "Month must be between 1 and 12."},

	// 3xxx
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrSessionExpired:     {Code: ErrSessionExpired, Message: "Your session has expired. Please sign in again.", Status: http.StatusUnauthorized},
	ErrAlreadyLoggedIn:    {Code: ErrAlreadyLoggedIn, Message: "You are already signed in."},
	ErrMissingCredentials: {Code: ErrMissingCredentials, Message: "Email and password are required."},

	// 4xxx
	ErrNetwork:         {Code: ErrNetwork, Message: "A client-side error occurred: %s", Status: http.StatusBadGateway},
	ErrBadRequest:      {Code: ErrBadRequest, Message: "Bad Request: Please check the data you have entered."},
	ErrForbidden:       {Code: ErrForbidden, Message: "Access Forbidden: You do not have permission to perform this action.", Status: http.StatusForbidden},
	ErrServerError:     {Code: ErrServerError, Message: "Server Error: Please try again later.", Status: http.StatusBadGateway},
	ErrUnknownStatus:   {Code: ErrUnknownStatus, Message: "Error %d: %s"},
	ErrInvalidResponse: {Code: ErrInvalidResponse, Message: "Invalid response from server: %s", Status: http.StatusBadGateway},

	// 5xxx
	ErrUnknown:      {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrSessionStore: {Code: ErrSessionStore, Message: "Session storage is unavailable.", Status: http.StatusInternalServerError},
}
