package model

import "context"

// CredentialStore checks a username/password pair against a backing store.
//
// A missing match is reported as AuthInvalid, never as an error. Errors are
// reserved for failures of the store itself and wrap ErrLookup.
type CredentialStore interface {
	Authenticate(ctx context.Context, req CredentialRequest) (AuthResult, error)
}

// CredentialRequest is a validated inbound credential check.
type CredentialRequest struct {
	Username string
	Password string
}

// UserRecord is a stored username/password pair.
type UserRecord struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Matches reports whether the record matches the request exactly, case included.
func (u UserRecord) Matches(req CredentialRequest) bool {
	return u.Username == req.Username && u.Password == req.Password
}

// AuthResult is the verdict of a credential check.
type AuthResult int

const (
	// AuthInvalid means no stored record matches the request.
	AuthInvalid AuthResult = iota
	// AuthValid means a stored record matches the request.
	AuthValid
)

// String returns the wire literal of the verdict.
func (r AuthResult) String() string {
	if r == AuthValid {
		return "valid"
	}
	return "invalid"
}
