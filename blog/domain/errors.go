package domain

import "errors"

var (
	// ErrPostNotFound means no post exists at the given slug.
	ErrPostNotFound = errors.New("post not found")
	// ErrAuthorNotFound means no author exists for the given email.
	// Authors are never created implicitly by the publish workflow.
	ErrAuthorNotFound = errors.New("author not found")
	// ErrInvalidTitle means the title produced an empty slug.
	ErrInvalidTitle = errors.New("title yields an empty slug")
)
