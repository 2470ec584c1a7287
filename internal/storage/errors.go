package storage

import "errors"

var (
	ErrConflict    = errors.New("record already exists")
	ErrNotFound    = errors.New("record not found")
	ErrCorruptData = errors.New("record data is corrupt")
	ErrStorage     = errors.New("storage failure")
	ErrInvalidName = errors.New("record name is required")
)
