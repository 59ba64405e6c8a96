package settings

import "context"

// Provider supplies the settings in effect right now. Scan processing and QR
// generation depend on this instead of reading the table directly.
type Provider interface {
	Current(ctx context.Context) (Settings, error)
}

type SettingsService interface {
	Provider
	Get(ctx context.Context) (SettingsResponse, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
}
