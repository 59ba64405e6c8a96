package qrtoken

import (
	"context"
	"time"
)

type QRTokenRepository interface {
	// CreateIfAbsent inserts the token unless one of the same type was already
	// issued on that day, in which case it returns ErrTokenAlreadyIssued.
	CreateIfAbsent(ctx context.Context, token QRToken) (QRToken, error)
	GetByToken(ctx context.Context, token string) (QRToken, error)
	// LatestActive returns the most recently created token that has not expired at now.
	LatestActive(ctx context.Context, now time.Time) (QRToken, error)
}
