package entity

import "errors"

var ErrNoRefreshToken = errors.New("no refresh token stored")

var (
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
)
