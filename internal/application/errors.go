package application

import "errors"

// Domain outcomes surfaced to the handler boundary. Handlers translate these
// to HTTP statuses; everything else is treated as an internal error.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrMessageNotFound    = errors.New("message not found")
	ErrInvalidText        = errors.New("message text must be 1-140 characters")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrSelfLike           = errors.New("cannot like your own message")
	ErrNotOwner           = errors.New("not the owner")
)
