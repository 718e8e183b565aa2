// Package repository provides the GORM-backed persistence layer. It is the
// only place storage-specific errors are interpreted: record-not-found and
// unique-index violations are translated into the sentinel errors below so
// the service layer never sees a driver error.
package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("record already exists")
)
