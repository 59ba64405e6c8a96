package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

const settingsColumns = `check_in_start, check_in_end, check_out_time, late_tolerance,
	radius_meters, office_address, office_lat, office_lon, updated_at`

func scanSettings(row pgx.Row) (settings.Settings, error) {
	var s settings.Settings
	err := row.Scan(
		&s.CheckInStart,
		&s.CheckInEnd,
		&s.CheckOutTime,
		&s.LateTolerance,
		&s.RadiusMeters,
		&s.OfficeAddress,
		&s.OfficeLat,
		&s.OfficeLon,
		&s.UpdatedAt,
	)
	return s, err
}

// Get implements settings.SettingsRepository.
func (r *settingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSettings(q.QueryRow(ctx, `SELECT `+settingsColumns+` FROM attendance_settings WHERE id = 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Settings{}, settings.ErrSettingsNotFound
		}
		return settings.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// Upsert implements settings.SettingsRepository.
func (r *settingsRepository) Upsert(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_settings (
			id, check_in_start, check_in_end, check_out_time, late_tolerance,
			radius_meters, office_address, office_lat, office_lon, updated_at
		)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE SET
			check_in_start = EXCLUDED.check_in_start,
			check_in_end   = EXCLUDED.check_in_end,
			check_out_time = EXCLUDED.check_out_time,
			late_tolerance = EXCLUDED.late_tolerance,
			radius_meters  = EXCLUDED.radius_meters,
			office_address = EXCLUDED.office_address,
			office_lat     = EXCLUDED.office_lat,
			office_lon     = EXCLUDED.office_lon,
			updated_at     = EXCLUDED.updated_at
		RETURNING ` + settingsColumns

	saved, err := scanSettings(q.QueryRow(ctx, query,
		s.CheckInStart,
		s.CheckInEnd,
		s.CheckOutTime,
		s.LateTolerance,
		s.RadiusMeters,
		s.OfficeAddress,
		s.OfficeLat,
		s.OfficeLon,
	))
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return saved, nil
}
