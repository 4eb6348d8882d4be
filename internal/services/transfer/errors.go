package transfer

import "errors"

// Service errors
var (
	ErrSameUser            = errors.New("cannot transfer to same user")
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
	ErrUserNotFound        = errors.New("some user was not found")
	ErrInsufficientBalance = errors.New("insufficient balance to transfer")
	ErrConflict            = errors.New("transfer conflicted with a concurrent operation")
)
