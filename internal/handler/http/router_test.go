package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler    http.Handler
	jwt        jwt.Service
	auth       *fakeAuthService
	attendance *fakeAttendanceService
}

func newTestServer(t *testing.T, opts RouterOptions) *testServer {
	t.Helper()

	jwtService, err := jwt.NewJWTService("test-secret-key-with-enough-length", "15m", "168h")
	require.NoError(t, err)

	authService := &fakeAuthService{}
	attendanceService := &fakeAttendanceService{}
	pegawaiService := &fakePegawaiService{}

	h := Handlers{
		Auth:       NewAuthHandler(jwtService, authService, pegawaiService, nil, "http://localhost:3000"),
		Attendance: NewAttendanceHandler(attendanceService),
		QR:         NewQRHandler(&fakeQRService{}),
		Settings:   NewSettingsHandler(&fakeSettingsService{}),
		Pegawai:    NewPegawaiHandler(pegawaiService),
	}

	return &testServer{
		handler:    NewRouter(jwtService, h, opts),
		jwt:        jwtService,
		auth:       authService,
		attendance: attendanceService,
	}
}

func (s *testServer) token(t *testing.T, role user.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken("u-"+string(role), string(role)+"@mail.com", "Test "+string(role), role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	t.Run("success sets refresh cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"budi@mail.com","password":"secret123"}`))
		rec := s.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var found bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == "refresh_token" {
				found = true
				assert.Equal(t, "refresh", c.Value)
			}
		}
		assert.True(t, found, "refresh_token cookie not set")
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"budi@mail.com","password":"nope12345"}`))
		rec := s.do(req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, decodeBody(t, rec).Success)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{`))
		rec := s.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
		rec := s.do(req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		require.NotNil(t, body.Error)
		assert.Contains(t, body.Error.Details, "email")
	})
}

func TestLogin_RateLimited(t *testing.T) {
	s := newTestServer(t, RouterOptions{RateLimiter: middleware.NewRateLimiter(1, 1)})

	first := s.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"budi@mail.com","password":"secret123"}`)))
	second := s.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"budi@mail.com","password":"secret123"}`)))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRefreshToken_PrefersCookie(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-token"})
	rec := s.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cookie-token", s.auth.refreshedToken)
}

func TestLogout_RevokesTokens(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	token := s.token(t, user.RolePegawai)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", strings.NewReader(`{"refresh_token":"r-1"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := s.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"r-1"}, s.auth.loggedOut)
	assert.Equal(t, []string{token}, s.auth.revokedAccess)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	t.Run("missing token", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		refresh, _, err := s.jwt.GenerateRefreshToken("u-1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		assert.Equal(t, http.StatusUnauthorized, s.do(req).Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		token := s.token(t, user.RoleHR)
		s.jwt.RevokeToken(token, time.Now().Add(time.Hour))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, s.do(req).Code)
	})

	t.Run("me returns the caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+s.token(t, user.RolePegawai))
		rec := s.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"u-pegawai"`)
	})
}

func TestRoleGuards(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	tests := []struct {
		name   string
		method string
		path   string
		role   user.Role
		body   string
		want   int
	}{
		{"pegawai cannot list employees", http.MethodGet, "/api/v1/pegawai", user.RolePegawai, "", http.StatusForbidden},
		{"hr lists employees", http.MethodGet, "/api/v1/pegawai", user.RoleHR, "", http.StatusOK},
		{"admin lists employees", http.MethodGet, "/api/v1/pegawai", user.RoleAdmin, "", http.StatusOK},
		{"admin cannot scan", http.MethodPost, "/api/v1/absensi/scan-qr", user.RoleAdmin, `{}`, http.StatusForbidden},
		{"admin cannot approve", http.MethodPost, "/api/v1/absensi/abc/approve", user.RoleAdmin, "", http.StatusForbidden},
		{"pegawai cannot approve", http.MethodPost, "/api/v1/absensi/abc/approve", user.RolePegawai, "", http.StatusForbidden},
		{"hr approves", http.MethodPost, "/api/v1/absensi/abc/approve", user.RoleHR, "", http.StatusOK},
		{"pegawai cannot read settings", http.MethodGet, "/api/v1/absensi/settings", user.RolePegawai, "", http.StatusForbidden},
		{"admin reads settings", http.MethodGet, "/api/v1/absensi/settings", user.RoleAdmin, "", http.StatusOK},
		{"pegawai reads own history", http.MethodGet, "/api/v1/absensi/riwayat", user.RolePegawai, "", http.StatusOK},
		{"admin has no own history", http.MethodGet, "/api/v1/absensi/riwayat", user.RoleAdmin, "", http.StatusForbidden},
		{"pegawai cannot list all attendance", http.MethodGet, "/api/v1/absensi", user.RolePegawai, "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Authorization", "Bearer "+s.token(t, tt.role))
			rec := s.do(req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	assert.Equal(t, "abc", s.attendance.approvedID)
}

func TestScan(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	t.Run("check-in", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/absensi/scan-qr", strings.NewReader(`{"token":"t","latitude":-6.2,"longitude":106.8}`))
		req.Header.Set("Authorization", "Bearer "+s.token(t, user.RolePegawai))
		rec := s.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Check-in successful", decodeBody(t, rec).Message)
	})

	t.Run("out of range reports distance", func(t *testing.T) {
		s.attendance.scanErr = &attendance.OutOfRangeError{DistanceMeters: 250, RadiusMeters: 100}
		defer func() { s.attendance.scanErr = nil }()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/absensi/scan-qr", strings.NewReader(`{"token":"t","latitude":-6.2,"longitude":106.8}`))
		req.Header.Set("Authorization", "Bearer "+s.token(t, user.RolePegawai))
		rec := s.do(req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		body := decodeBody(t, rec)
		require.NotNil(t, body.Error)
		assert.Equal(t, "250", body.Error.Details["distance_meters"])
		assert.Equal(t, "100", body.Error.Details["radius_meters"])
	})
}

func TestSubmitLeaveRequest(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("date", "2026-10-12"))
	require.NoError(t, mw.WriteField("type", "sakit"))
	require.NoError(t, mw.WriteField("reason", "Demam"))
	part, err := mw.CreateFormFile("attachment", "surat.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/absensi/ajukan", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token(t, user.RolePegawai))
	rec := s.do(req)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "surat.pdf", s.attendance.leaveFile)
	assert.Equal(t, "2026-10-12", s.attendance.leaveReq.Date)
	assert.Equal(t, attendance.LeaveSakit, s.attendance.leaveReq.LeaveType)
}

func TestSubmitLeaveRequest_MissingAttachment(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("date", "2026-10-12"))
	require.NoError(t, mw.WriteField("type", "izin"))
	require.NoError(t, mw.WriteField("reason", "Urusan keluarga"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/absensi/ajukan", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token(t, user.RolePegawai))
	rec := s.do(req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Details, "attachment")
}

func TestReject(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	t.Run("empty body uses default reason", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/absensi/rec-1/reject", nil)
		req.Header.Set("Authorization", "Bearer "+s.token(t, user.RoleHR))
		rec := s.do(req)

		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "rec-1", s.attendance.rejectReq.ID)
		assert.Equal(t, attendance.DefaultRejectReason, s.attendance.rejectReq.Reason)
	})

	t.Run("reason from body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/absensi/rec-2/reject", strings.NewReader(`{"reason":"Dokumen tidak jelas"}`))
		req.Header.Set("Authorization", "Bearer "+s.token(t, user.RoleHR))
		rec := s.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "rec-2", s.attendance.rejectReq.ID)
		assert.Equal(t, "Dokumen tidak jelas", s.attendance.rejectReq.Reason)
	})
}

func TestHistory_QueryFilters(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/absensi/riwayat?start_date=2026-10-01&end_date=2026-10-31&page=2&limit=10", nil)
	req.Header.Set("Authorization", "Bearer "+s.token(t, user.RolePegawai))
	rec := s.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, s.attendance.historySeen.StartDate)
	assert.Equal(t, "2026-10-01", *s.attendance.historySeen.StartDate)
	assert.Equal(t, "2026-10-31", *s.attendance.historySeen.EndDate)
	assert.Equal(t, 2, s.attendance.historySeen.Page)
	assert.Equal(t, 10, s.attendance.historySeen.Limit)
}

func TestQRLatest_NoActiveToken(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/qr/latest", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGoogleLogin_Disabled(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/login/oauth/google", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "leave"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leave", "surat.pdf"), []byte("%PDF-1.4"), 0o644))

	s := newTestServer(t, RouterOptions{UploadsDir: dir})
	token := s.token(t, user.RoleHR)

	t.Run("requires auth", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/uploads/leave/surat.pdf", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("serves file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/uploads/leave/surat.pdf", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := s.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "%PDF-1.4", rec.Body.String())
	})

	t.Run("no directory listing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/uploads/leave/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := s.do(req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
