// Package repository implements MySQL persistence for staff, students and
// notes. Sentinel errors let handlers map failure modes to HTTP statuses
// without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist. Handlers
// translate it into a 404.
var ErrNotFound = errors.New("not found")

// ErrStudentExists is returned when creating a student whose identifier is
// already taken. The existing record is left untouched; handlers translate
// it into a 409 with a conflict message.
var ErrStudentExists = errors.New("student id already exists")

// ErrEmailExists is returned when registering a staff account with an email
// that is already taken.
var ErrEmailExists = errors.New("email already exists")
