// Package repository defines sentinel errors shared across repositories.
// Handlers switch on these to pick HTTP status codes: ErrNotFound maps to
// 404, ErrNoFieldsToUpdate to 400.  Ownership violations are decided in
// the handler layer (it knows the caller's role), so no forbidden
// sentinel lives here.
package repository

import "errors"

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

// ErrNoFieldsToUpdate is returned when an update request contains no
// recognized writable field.  The statement is never sent to the
// database in that case.
var ErrNoFieldsToUpdate = errors.New("no fields to update")
