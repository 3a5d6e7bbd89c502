// Package repository implements data access over a pooled *sql.DB handle.
// This file defines the sentinel errors shared across repositories.  These
// values let handlers distinguish failure scenarios without inspecting raw
// storage errors: handlers map them onto the HTTP taxonomy and the raw
// engine error text never reaches a client.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a referenced entity does not exist.
// Handlers translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert or update violates the unique
// constraint on users.email.  Uniqueness is enforced at the storage layer
// so concurrent registrations with the same email race safely.
var ErrEmailExists = errors.New("email already exists")

// ErrAlreadyMember is returned when a membership insert violates the
// composite unique key on organisation_members.  Handlers translate this
// into an HTTP 400 response.
var ErrAlreadyMember = errors.New("already a member")

// isDuplicateKey reports whether err is a MySQL duplicate-entry violation
// (error 1062).  Matching on the error text keeps the repositories free of
// a driver-specific error type dependency.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
