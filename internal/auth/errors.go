package auth

import "errors"

var (
	ErrTokenRequired  = errors.New("auth: access token required")
	ErrTokenExpired   = errors.New("auth: token expired")
	ErrInvalidToken   = errors.New("auth: invalid token")
	ErrInvalidPayload = errors.New("auth: invalid token payload")
	ErrUserNotFound   = errors.New("auth: user not found")
	ErrDeactivated    = errors.New("auth: account deactivated")
)
