package model

import "errors"

var (
	// ErrRepositoryNotFound indicates that the repository is not tracked.
	ErrRepositoryNotFound = errors.New("repository not found")
)
