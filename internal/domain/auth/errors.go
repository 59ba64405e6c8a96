package auth

import (
	"errors"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/user"
)

var (
	ErrInvalidCredentials         = errors.New("invalid email or password")
	ErrInvalidToken               = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked        = errors.New("refresh token has been revoked")
	ErrRefreshTokenCookieNotFound = errors.New("refresh token not provided")
	ErrUnauthenticated            = user.ErrUnauthenticated
	ErrGoogleAccountNotLinked     = errors.New("no account is registered for this google email")
	ErrGoogleEmailNotVerified     = errors.New("google email is not verified")
	ErrGoogleLoginDisabled        = errors.New("google sign-in is not configured")
	ErrStateMismatch              = errors.New("oauth state mismatch")
)
