// Package common defines shared sentinel errors used across the
// authentication service. Callers should use errors.Is to match these
// values. Error texts of the validation and auth errors are surfaced
// verbatim to API clients, so they are worded as user-facing messages.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Registration validation errors, in the order they are checked.
	ErrorUsernameRequired  = errors.New("Username is required")
	ErrorEmailRequired     = errors.New("Email is required")
	ErrorPasswordRequired  = errors.New("Password is required")
	ErrorPasswordMismatch  = errors.New("Passwords do not match")
	ErrorPasswordTooShort  = errors.New("Password must be at least 6 characters")
	ErrorUsernameTaken     = errors.New("Username already exists")
	ErrorEmailTaken        = errors.New("Email already exists")
	ErrorIdentifierMissing = errors.New("Username or email is required")

	// Login errors. ErrorInvalidCredentials deliberately covers both the
	// unknown-identity and wrong-password cases so the response does not
	// reveal which identifiers exist. Inactive accounts are reported
	// separately.
	ErrorInvalidCredentials = errors.New("Invalid username/email or password")
	ErrorAccountInactive    = errors.New("Account is inactive")

	// Token errors (invalid or malformed token, missing claim).
	ErrorInvalidToken = errors.New("invalid token")
	ErrorNoUserID     = errors.New("no user id")
)
