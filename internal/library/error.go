package library

import "errors"

// Error definitions for the library package.
var (
	ErrCorruptCache = errors.New("library index cache is corrupt")
	ErrNoVideoDir   = errors.New("video directory is not configured")
)
