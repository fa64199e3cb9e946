// Package apperr holds the sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrNoFolder      = errors.New("no folder selected")
	ErrNoNote        = errors.New("no note open")
	ErrConflict      = errors.New("checksum mismatch")
	ErrInvalidAction = errors.New("invalid action")

	// ErrWriteFailed marks an edit that is kept in memory but could not be
	// written through to disk.
	ErrWriteFailed = errors.New("write failed")
)
