package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsRepo struct {
	stored *settings.Settings
	getErr error
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (settings.Settings, error) {
	if f.getErr != nil {
		return settings.Settings{}, f.getErr
	}
	if f.stored == nil {
		return settings.Settings{}, settings.ErrSettingsNotFound
	}
	return *f.stored, nil
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	s.UpdatedAt = time.Date(2025, 4, 15, 9, 0, 0, 0, time.UTC)
	f.stored = &s
	return s, nil
}

var testDefaults = settings.Defaults{
	CheckInStart:  "07:00",
	CheckInEnd:    "09:00",
	CheckOutTime:  "17:00",
	LateTolerance: "08:00",
	RadiusMeters:  100,
	OfficeAddress: "Kantor Pusat",
	OfficeLat:     -6.2,
	OfficeLon:     106.816666,
}

func actorContext(t *testing.T, role string) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{"user_id": "u-" + role, "role": role, "name": role})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestCurrent_FallsBackToDefaults(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, testDefaults)

	current, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.True(t, current.IsDefault)
	assert.Equal(t, 100, current.RadiusMeters)
	assert.Equal(t, "08:00", current.LateTolerance)
}

func TestCurrent_PropagatesRepositoryFailure(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{getErr: errors.New("connection refused")}, testDefaults)
	_, err := svc.Current(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestUpdate_ThenGetReturnsStored(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, testDefaults)
	ctx := actorContext(t, "hr")

	resp, err := svc.Update(ctx, settings.UpdateSettingsRequest{
		CheckInStart:  "06:30",
		CheckInEnd:    "09:30",
		CheckOutTime:  "16:30",
		LateTolerance: "08:15",
		RadiusMeters:  250,
		OfficeAddress: "Gedung Baru",
		OfficeLat:     -6.21,
		OfficeLon:     106.82,
	})
	require.NoError(t, err)
	assert.False(t, resp.IsDefault)
	assert.NotNil(t, resp.UpdatedAt)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 250, got.RadiusMeters)
	assert.Equal(t, "Gedung Baru", got.OfficeAddress)
	assert.False(t, got.IsDefault)
}

func TestUpdate_Validation(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, testDefaults)

	_, err := svc.Update(actorContext(t, "admin"), settings.UpdateSettingsRequest{RadiusMeters: 5})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
	assert.Nil(t, repo.stored)
}

func TestSettings_PegawaiForbidden(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, testDefaults)
	ctx := actorContext(t, "pegawai")

	_, err := svc.Get(ctx)
	assert.ErrorIs(t, err, settings.ErrForbidden)
	_, err = svc.Update(ctx, settings.UpdateSettingsRequest{})
	assert.ErrorIs(t, err, settings.ErrForbidden)
}
