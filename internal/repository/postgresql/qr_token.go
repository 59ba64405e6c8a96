package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/qrtoken"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type qrTokenRepository struct {
	db *database.DB
}

func NewQRTokenRepository(db *database.DB) qrtoken.QRTokenRepository {
	return &qrTokenRepository{db: db}
}

func scanQRToken(row pgx.Row) (qrtoken.QRToken, error) {
	var t qrtoken.QRToken
	err := row.Scan(&t.ID, &t.Token, &t.Type, &t.IssuedOn, &t.ExpiresAt, &t.CreatedAt)
	return t, err
}

// CreateIfAbsent implements qrtoken.QRTokenRepository.
func (r *qrTokenRepository) CreateIfAbsent(ctx context.Context, token qrtoken.QRToken) (qrtoken.QRToken, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO qr_tokens (id, token, type, issued_on, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, token, type, issued_on, expires_at, created_at
	`
	created, err := scanQRToken(q.QueryRow(ctx, query,
		token.ID,
		token.Token,
		token.Type,
		token.IssuedOn,
		token.ExpiresAt,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "qr_tokens_type_issued_on_key") {
			return qrtoken.QRToken{}, qrtoken.ErrTokenAlreadyIssued
		}
		return qrtoken.QRToken{}, fmt.Errorf("failed to insert qr token: %w", err)
	}
	return created, nil
}

// GetByToken implements qrtoken.QRTokenRepository.
func (r *qrTokenRepository) GetByToken(ctx context.Context, token string) (qrtoken.QRToken, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT id, token, type, issued_on, expires_at, created_at FROM qr_tokens WHERE token = $1`
	return scanQRToken(q.QueryRow(ctx, query, token))
}

// LatestActive implements qrtoken.QRTokenRepository.
func (r *qrTokenRepository) LatestActive(ctx context.Context, now time.Time) (qrtoken.QRToken, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, token, type, issued_on, expires_at, created_at
		FROM qr_tokens
		WHERE expires_at > $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanQRToken(q.QueryRow(ctx, query, now))
}
