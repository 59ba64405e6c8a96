package qrtoken

import "errors"

var (
	ErrInvalidOrExpiredToken = errors.New("qr code is invalid or has expired")
	ErrNoActiveToken         = errors.New("no active qr code available")
	ErrTokenAlreadyIssued    = errors.New("qr code for this window has already been issued today")
)
