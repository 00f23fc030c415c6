// Package repository defines the persistence contract for users,
// listings, transactions and sessions, together with the sentinel
// errors shared by all implementations. Handlers translate these
// sentinels into HTTP statuses with errors.Is, so the MySQL and the
// in-memory backends are interchangeable behind the interfaces in
// store.go.
package repository

import "errors"

// ErrNotFound is returned when an entity with the requested id (or
// unique field) does not exist. Handlers translate this into 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// dependent records, such as deleting a listing that still has a
// pending transaction. Handlers translate this into 409.
var ErrConflict = errors.New("conflict")

// ErrInvalidState is returned when a compare-and-swap status update
// finds the entity in a different state than expected, e.g. creating
// a transaction against a listing that is no longer available.
// Handlers translate this into 400.
var ErrInvalidState = errors.New("invalid state")

// ErrEmailExists is returned by user creation when the email is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned by user creation when the username is
// already taken.
var ErrUsernameExists = errors.New("username already exists")
