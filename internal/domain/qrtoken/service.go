package qrtoken

import "context"

type QRTokenService interface {
	// Generate mints the token for the window containing the current time.
	// Outside both windows, or when the window already has a token today, it
	// returns Generated=false and no error.
	Generate(ctx context.Context) (GenerateResult, error)
	Validate(ctx context.Context, token string) (QRToken, error)
	Latest(ctx context.Context) (QRTokenResponse, error)
}
