package model

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserExists     = errors.New("user already exists")
	ErrUserNotEnabled = errors.New("user not enabled")
	ErrBadCredentials = errors.New("bad credentials: verify login or password")

	ErrTokenNotFound = errors.New("token not found")
	ErrTokenInvalid  = errors.New("token invalid")
)
