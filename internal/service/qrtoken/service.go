package qrtoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/qrtoken"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// tokenBytes is the amount of randomness in each minted code.
const tokenBytes = 32

type QRTokenServiceImpl struct {
	qrtoken.QRTokenRepository
	windows qrtoken.Windows
	now     func() time.Time
}

func NewQRTokenService(qrTokenRepo qrtoken.QRTokenRepository, windows qrtoken.Windows) qrtoken.QRTokenService {
	return &QRTokenServiceImpl{
		QRTokenRepository: qrTokenRepo,
		windows:           windows,
		now:               time.Now,
	}
}

func (s *QRTokenServiceImpl) Generate(ctx context.Context) (qrtoken.GenerateResult, error) {
	now := s.now().In(s.windows.Location)

	window, expiresAt, ok := s.windows.Active(now)
	if !ok {
		return qrtoken.GenerateResult{Message: "outside qr generation windows"}, nil
	}

	value, err := newTokenValue()
	if err != nil {
		return qrtoken.GenerateResult{}, fmt.Errorf("failed to generate qr token: %w", err)
	}

	created, err := s.QRTokenRepository.CreateIfAbsent(ctx, qrtoken.QRToken{
		ID:        uuid.New().String(),
		Token:     value,
		Type:      window.Type,
		IssuedOn:  utils.StartOfDay(now, s.windows.Location),
		ExpiresAt: expiresAt,
		CreatedAt: now,
	})
	if err != nil {
		if errors.Is(err, qrtoken.ErrTokenAlreadyIssued) {
			return qrtoken.GenerateResult{Message: fmt.Sprintf("%s qr code already issued today", window.Type)}, nil
		}
		return qrtoken.GenerateResult{}, fmt.Errorf("failed to create qr token: %w", err)
	}

	slog.Info("QR token generated", "type", created.Type, "expires_at", created.ExpiresAt)

	resp := qrtoken.NewQRTokenResponse(created)
	return qrtoken.GenerateResult{
		Generated: true,
		Message:   fmt.Sprintf("%s qr code generated", created.Type),
		Token:     &resp,
	}, nil
}

// Validate does not consume the token; every employee scans the same code.
func (s *QRTokenServiceImpl) Validate(ctx context.Context, token string) (qrtoken.QRToken, error) {
	found, err := s.QRTokenRepository.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return qrtoken.QRToken{}, qrtoken.ErrInvalidOrExpiredToken
		}
		return qrtoken.QRToken{}, fmt.Errorf("failed to get qr token: %w", err)
	}

	if found.IsExpired(s.now()) {
		return qrtoken.QRToken{}, qrtoken.ErrInvalidOrExpiredToken
	}
	return found, nil
}

func (s *QRTokenServiceImpl) Latest(ctx context.Context) (qrtoken.QRTokenResponse, error) {
	latest, err := s.QRTokenRepository.LatestActive(ctx, s.now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return qrtoken.QRTokenResponse{}, qrtoken.ErrNoActiveToken
		}
		return qrtoken.QRTokenResponse{}, fmt.Errorf("failed to get latest qr token: %w", err)
	}
	return qrtoken.NewQRTokenResponse(latest), nil
}

func newTokenValue() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
