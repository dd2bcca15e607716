package users

import "errors"

var (
	ErrNotFound          = errors.New("user not found")
	ErrAlreadyExists     = errors.New("user with this username or email already exists")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrWrongPassword     = errors.New("wrong current password")
	ErrSelfSubscription  = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("already subscribed to this user")
	ErrNotSubscribed     = errors.New("not subscribed to this user")
)
