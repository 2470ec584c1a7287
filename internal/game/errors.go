package game

import "errors"

var (
	ErrLevelNotFound = errors.New("level not found")
)
