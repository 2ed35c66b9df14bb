package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrVideoNotFound    = errors.New("video not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrTweetNotFound    = errors.New("tweet not found")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrNotFound         = errors.New("document not found")
	ErrDuplicateKey     = errors.New("duplicate unique field")
)
