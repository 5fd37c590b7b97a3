/*
Package user holds the profile and registration records exchanged with the PixelMinds API.
*/
package user

import (
	"errors"
	"net/mail"
	"strings"
)

// Profile is the editable profile of a user.
type Profile struct {
	ID       int64  `json:"id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Location string `json:"location,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Validate checks the fields the API requires on a profile update.
func (p Profile) Validate() error {
	if p.ID <= 0 {
		return errors.New("profile id must be positive")
	}
	if strings.TrimSpace(p.Fullname) == "" {
		return errors.New("fullname is required")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return errors.New("email is invalid")
	}
	return nil
}

// Registration is the body of a sign-up request. Field names follow the API.
type Registration struct {
	Email    string `json:"user_email"`
	Password string `json:"password"`
	Fullname string `json:"user_fullname"`
}

// Validate checks a registration before it is sent.
func (r Registration) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("email is invalid")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	if strings.TrimSpace(r.Fullname) == "" {
		return errors.New("full name is required")
	}
	return nil
}
