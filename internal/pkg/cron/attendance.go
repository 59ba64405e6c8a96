package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/qrtoken"
)

type AttendanceJobs struct {
	qrService         qrtoken.QRTokenService
	attendanceService attendance.AttendanceService
	qrInterval        time.Duration
	alphaRunHour      int
	loc               *time.Location
	now               func() time.Time
}

func NewAttendanceJobs(
	qrService qrtoken.QRTokenService,
	attendanceService attendance.AttendanceService,
	qrInterval time.Duration,
	alphaRunHour int,
	loc *time.Location,
) *AttendanceJobs {
	return &AttendanceJobs{
		qrService:         qrService,
		attendanceService: attendanceService,
		qrInterval:        qrInterval,
		alphaRunHour:      alphaRunHour,
		loc:               loc,
		now:               time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("generate_qr_token", j.qrInterval, j.GenerateQRToken)
	scheduler.AddJob("generate_auto_absences", 1*time.Hour, j.GenerateAutoAbsences)
}

// GenerateQRToken mints the token of the active window. Outside the windows and
// after the day's token exists it does nothing.
func (j *AttendanceJobs) GenerateQRToken(ctx context.Context) error {
	result, err := j.qrService.Generate(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate qr token: %w", err)
	}
	if result.Generated {
		slog.Info("Cron: QR token generated", "type", result.Token.Type, "expires_at", result.Token.ExpiresAt)
	} else {
		slog.Debug("Cron: QR token not generated", "reason", result.Message)
	}
	return nil
}

// GenerateAutoAbsences backfills Alpha records, but only during the configured hour.
func (j *AttendanceJobs) GenerateAutoAbsences(ctx context.Context) error {
	if j.now().In(j.loc).Hour() != j.alphaRunHour {
		return nil
	}

	slog.Info("Cron: Starting auto absence job")

	result, err := j.attendanceService.GenerateAutoAbsences(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate auto absences: %w", err)
	}
	if result.Skipped {
		slog.Info("Cron: Auto absences skipped on weekend", "date", result.Date)
		return nil
	}

	slog.Info("Cron: Generated auto absences", "date", result.Date, "count", result.Generated)
	return nil
}
