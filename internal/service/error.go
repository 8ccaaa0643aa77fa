package service

import "errors"

// ErrOutsideLibrary is returned when a clip path is not inside the video or
// fingerspelling directory.
var ErrOutsideLibrary = errors.New("clip is outside the sign library")
