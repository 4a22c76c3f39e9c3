package domain

import "errors"

// Authentication and authorization.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenRevoked     = errors.New("token revoked")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrForbidden        = errors.New("access forbidden")
)

// Identity.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Assets.
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrPayloadTooLarge      = errors.New("file exceeds the maximum upload size")
	ErrMissingFile          = errors.New("file is required")
	ErrUnknownCategory      = errors.New("unknown asset category")
)

// Generic.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)
