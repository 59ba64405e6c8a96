package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/user"
)

type SettingsServiceImpl struct {
	settings.SettingsRepository
	defaults settings.Defaults
}

func NewSettingsService(settingsRepo settings.SettingsRepository, defaults settings.Defaults) settings.SettingsService {
	return &SettingsServiceImpl{
		SettingsRepository: settingsRepo,
		defaults:           defaults,
	}
}

// Current returns the stored settings, or the configured defaults when none were saved yet.
func (s *SettingsServiceImpl) Current(ctx context.Context) (settings.Settings, error) {
	current, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrSettingsNotFound) {
			return s.defaults.Settings(), nil
		}
		return settings.Settings{}, fmt.Errorf("failed to get attendance settings: %w", err)
	}
	return current, nil
}

func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.SettingsResponse, error) {
	if err := requireManager(ctx); err != nil {
		return settings.SettingsResponse{}, err
	}

	current, err := s.Current(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	return settings.NewSettingsResponse(current), nil
}

func (s *SettingsServiceImpl) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	if err := requireManager(ctx); err != nil {
		return settings.SettingsResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	saved, err := s.SettingsRepository.Upsert(ctx, req.ToSettings())
	if err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to save attendance settings: %w", err)
	}

	slog.Info("Attendance settings updated", "radius_meters", saved.RadiusMeters, "late_tolerance", saved.LateTolerance)
	return settings.NewSettingsResponse(saved), nil
}

func requireManager(ctx context.Context) error {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return err
	}
	if !actor.Can(user.PermissionSettingsManage) {
		return settings.ErrForbidden
	}
	return nil
}
