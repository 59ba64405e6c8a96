package http

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/qrtoken"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/user"
)

type fakeAuthService struct {
	mu             sync.Mutex
	loggedOut      []string
	revokedAccess  []string
	refreshedToken string
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}
	if req.Email != "budi@mail.com" || req.Password != "secret123" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	return auth.TokenResponse{
		AccessToken:           "access",
		RefreshToken:          "refresh",
		RefreshTokenExpiresIn: 4102444800,
		User:                  user.UserResponse{ID: "u-1", Name: "Budi"},
	}, nil
}

func (f *fakeAuthService) LoginWithGoogle(ctx context.Context, email string, googleID string, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	return auth.TokenResponse{}, auth.ErrGoogleAccountNotLinked
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}
	f.mu.Lock()
	f.refreshedToken = req.RefreshToken
	f.mu.Unlock()
	return auth.AccessTokenResponse{AccessToken: "new-access"}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string, accessToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = append(f.loggedOut, refreshToken)
	f.revokedAccess = append(f.revokedAccess, accessToken)
	return nil
}

type fakeAttendanceService struct {
	attendance.AttendanceService
	mu          sync.Mutex
	scanErr     error
	leaveReq    attendance.LeaveRequest
	leaveFile   string
	rejectReq   attendance.RejectRequest
	approvedID  string
	historySeen attendance.HistoryFilter
}

func (f *fakeAttendanceService) Scan(ctx context.Context, req attendance.ScanRequest) (attendance.ScanResponse, error) {
	if f.scanErr != nil {
		return attendance.ScanResponse{}, f.scanErr
	}
	return attendance.ScanResponse{Action: attendance.ActionCheckIn, Record: attendance.RecordResponse{Status: attendance.LabelHadir}}, nil
}

func (f *fakeAttendanceService) SubmitLeaveRequest(ctx context.Context, req attendance.LeaveRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaveReq = req
	f.leaveFile = req.FileHeader.Filename
	return attendance.RecordResponse{Status: attendance.LabelSakit}, nil
}

func (f *fakeAttendanceService) ListOwnHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.ListRecordResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historySeen = filter
	return attendance.NewListRecordResponse(nil, 0, 1, 20), nil
}

func (f *fakeAttendanceService) ListAll(ctx context.Context, filter attendance.HistoryFilter) (attendance.ListRecordResponse, error) {
	return attendance.NewListRecordResponse(nil, 0, 1, 20), nil
}

func (f *fakeAttendanceService) Approve(ctx context.Context, id string) (attendance.RecordResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approvedID = id
	return attendance.RecordResponse{ID: id}, nil
}

func (f *fakeAttendanceService) Reject(ctx context.Context, req attendance.RejectRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejectReq = req
	return attendance.RecordResponse{ID: req.ID}, nil
}

type fakeQRService struct {
	qrtoken.QRTokenService
}

func (f *fakeQRService) Latest(ctx context.Context) (qrtoken.QRTokenResponse, error) {
	return qrtoken.QRTokenResponse{}, qrtoken.ErrNoActiveToken
}

type fakeSettingsService struct {
	settings.SettingsService
}

func (f *fakeSettingsService) Get(ctx context.Context) (settings.SettingsResponse, error) {
	return settings.SettingsResponse{RadiusMeters: 100, IsDefault: true}, nil
}

type fakePegawaiService struct {
	user.PegawaiService
}

func (f *fakePegawaiService) List(ctx context.Context) ([]user.UserResponse, error) {
	return []user.UserResponse{{ID: "u-1", Name: "Budi"}}, nil
}

func (f *fakePegawaiService) Me(ctx context.Context) (user.UserResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.UserResponse{ID: actor.ID, Name: actor.Name}, nil
}
