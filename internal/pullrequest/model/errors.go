package model

import "errors"

var (
	// ErrPullRequestExists indicates a create hit the (repository_id, number)
	// uniqueness invariant; callers fall back to the update path.
	ErrPullRequestExists = errors.New("pull request already exists")
	// ErrPullRequestNotFound indicates that the pull request does not exist.
	ErrPullRequestNotFound = errors.New("pull request not found")
	// ErrReviewNotFound indicates that the review does not exist.
	ErrReviewNotFound = errors.New("review not found")
)
