package myerrors

import "errors"

var (
	ErrEmailRegistered  = errors.New("email already in use")
	ErrUnknownEmail     = errors.New("invalid credentials")
	ErrPasswordMismatch = errors.New("invalid credentials")
	ErrUserNotFound     = errors.New("user not found")
)
