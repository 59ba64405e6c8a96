package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
	testPassword   = "password123"
)

type fakeUserRepo struct {
	user.UserRepository
	mu    sync.Mutex
	users []user.User
}

func (f *fakeUserRepo) find(match func(user.User) bool) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			return u, nil
		}
	}
	return user.User{}, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return f.find(func(u user.User) bool { return u.Email == email })
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return f.find(func(u user.User) bool { return u.ID == id })
}

func (f *fakeUserRepo) GetByGoogleID(ctx context.Context, googleID string) (user.User, error) {
	return f.find(func(u user.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (f *fakeUserRepo) LinkGoogleAccount(ctx context.Context, id string, googleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].GoogleID = &googleID
			return nil
		}
	}
	return pgx.ErrNoRows
}

type refreshEntry struct {
	userID  string
	revoked bool
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*refreshEntry
}

func (f *fakeRefreshTokenRepo) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = &refreshEntry{userID: userID}
	return nil
}

func (f *fakeRefreshTokenRepo) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.tokens[token]
	if !ok {
		return "", false, pgx.ErrNoRows
	}
	return e.userID, e.revoked, nil
}

func (f *fakeRefreshTokenRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.tokens[token]; ok {
		e.revoked = true
	}
	return nil
}

type testEnv struct {
	svc     auth.AuthService
	jwt     jwt.Service
	users   *fakeUserRepo
	refresh *fakeRefreshTokenRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)

	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	require.NoError(t, err)

	env := &testEnv{
		jwt: jwtService,
		users: &fakeUserRepo{users: []user.User{
			{ID: "u-1", Name: "Budi", Email: "budi@mail.com", PasswordHash: &hashed, Role: user.RolePegawai},
			{ID: "u-2", Name: "Rina", Email: "rina@mail.com", Role: user.RoleHR},
		}},
		refresh: &fakeRefreshTokenRepo{tokens: make(map[string]*refreshEntry)},
	}
	env.svc = NewAuthService(env.users, jwtService, env.refresh)
	return env
}

func claimsOf(t *testing.T, j jwt.Service, token string) map[string]interface{} {
	t.Helper()
	parsed, err := jwtauth.VerifyToken(j.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := parsed.AsMap(context.Background())
	require.NoError(t, err)
	return claims
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.Login(context.Background(), auth.LoginRequest{Email: " Budi@Mail.com ", Password: testPassword}, auth.SessionTrackingRequest{IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Budi", resp.User.Name)
	assert.Contains(t, env.refresh.tokens, resp.RefreshToken)

	claims := claimsOf(t, env.jwt, resp.AccessToken)
	assert.Equal(t, "u-1", claims["user_id"])
	assert.Equal(t, "pegawai", claims["role"])
	assert.Equal(t, "Budi", claims["name"])
	assert.Equal(t, "access", claims["type"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []auth.LoginRequest{
		{Email: "budi@mail.com", Password: "wrongpass"},
		{Email: "ghost@mail.com", Password: testPassword},
		{Email: "rina@mail.com", Password: testPassword}, // Google-only account
	}
	for _, req := range tests {
		_, err := env.svc.Login(ctx, req, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials, req.Email)
	}
}

func TestLogin_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Login(context.Background(), auth.LoginRequest{Email: "not-an-email", Password: "123"}, auth.SessionTrackingRequest{})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, auth.ErrInvalidCredentials))
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	login, err := env.svc.Login(ctx, auth.LoginRequest{Email: "budi@mail.com", Password: testPassword}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	refreshed, err := env.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, "u-1", claimsOf(t, env.jwt, refreshed.AccessToken)["user_id"])

	// An access token is not accepted as a refresh token.
	_, err = env.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = env.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, env.svc.Logout(ctx, login.RefreshToken, login.AccessToken))
	_, err = env.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
	assert.True(t, env.jwt.IsTokenRevoked(login.AccessToken))
}

func TestLogout_UnknownTokensAreIgnored(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.svc.Logout(context.Background(), "unknown", "not-a-jwt"))
}

func TestLoginWithGoogle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.LoginWithGoogle(ctx, "rina@mail.com", "google-123", auth.SessionTrackingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "hr", claimsOf(t, env.jwt, resp.AccessToken)["role"])

	linked, err := env.users.GetByID(ctx, "u-2")
	require.NoError(t, err)
	require.NotNil(t, linked.GoogleID)
	assert.Equal(t, "google-123", *linked.GoogleID)

	// Later logins resolve by Google id even if the email changed upstream.
	_, err = env.svc.LoginWithGoogle(ctx, "rina.new@mail.com", "google-123", auth.SessionTrackingRequest{})
	assert.NoError(t, err)

	_, err = env.svc.LoginWithGoogle(ctx, "rina@mail.com", "google-999", auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrGoogleAccountNotLinked)

	_, err = env.svc.LoginWithGoogle(ctx, "stranger@mail.com", "google-555", auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrGoogleAccountNotLinked)
}
