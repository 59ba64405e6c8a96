package attendance

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/qrtoken"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/utils"
	fileSvc "github.com/cmlabs-hris/absensi-backend-go/internal/service/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// fakeAttendanceRepo enforces the (employee_id, date) uniqueness the table guarantees.
type fakeAttendanceRepo struct {
	mu       sync.Mutex
	records  map[string]*attendance.Record
	failNext []error
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*attendance.Record)}
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format(utils.DateLayout)
}

func (f *fakeAttendanceRepo) popFailure() error {
	if len(f.failNext) == 0 {
		return nil
	}
	err := f.failNext[0]
	f.failNext = f.failNext[1:]
	return err
}

func (f *fakeAttendanceRepo) findByDay(employeeID string, date time.Time) *attendance.Record {
	key := dayKey(employeeID, date)
	for _, r := range f.records {
		if dayKey(r.EmployeeID, r.Date) == key {
			return r
		}
	}
	return nil
}

func (f *fakeAttendanceRepo) InsertIfAbsent(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.popFailure(); err != nil {
		return attendance.Record{}, err
	}
	if f.findByDay(record.EmployeeID, record.Date) != nil {
		return attendance.Record{}, attendance.ErrDuplicateRecord
	}
	record.ID = uuid.New().String()
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	f.records[record.ID] = &record
	return record, nil
}

func (f *fakeAttendanceRepo) CompleteCheckOut(ctx context.Context, id string, at time.Time, location string) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok {
		return attendance.Record{}, pgx.ErrNoRows
	}
	if r.CheckOutAt != nil {
		return attendance.Record{}, attendance.ErrAlreadyCompleted
	}
	r.CheckOutAt = &at
	r.CheckOutLocation = &location
	return *r, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok {
		return attendance.Record{}, pgx.ErrNoRows
	}
	return *r, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r := f.findByDay(employeeID, date); r != nil {
		return *r, nil
	}
	return attendance.Record{}, pgx.ErrNoRows
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Record, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Record
	for _, r := range f.records {
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.LeaveOnly && r.LeaveType == nil {
			continue
		}
		if filter.ApprovalStatus != nil && (r.ApprovalStatus == nil || *r.ApprovalStatus != *filter.ApprovalStatus) {
			continue
		}
		if filter.StartDate != nil && r.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && r.Date.After(*filter.EndDate) {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) TransitionApproval(ctx context.Context, id string, from, to attendance.ApprovalStatus, approverID, comment string) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok {
		return attendance.Record{}, pgx.ErrNoRows
	}
	if r.ApprovalStatus == nil || *r.ApprovalStatus != from {
		return attendance.Record{}, attendance.ErrAlreadyProcessed
	}
	r.ApprovalStatus = &to
	r.ApprovedBy = &approverID
	r.ApprovalComment = &comment
	return *r, nil
}

func (f *fakeAttendanceRepo) InsertAbsences(ctx context.Context, employeeIDs []string, date time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.popFailure(); err != nil {
		return nil, err
	}
	var inserted []string
	for _, id := range employeeIDs {
		if f.findByDay(id, date) != nil {
			continue
		}
		rec := attendance.Record{ID: uuid.New().String(), EmployeeID: id, Date: date, Outcome: attendance.OutcomeAbsent}
		f.records[rec.ID] = &rec
		inserted = append(inserted, id)
	}
	return inserted, nil
}

func (f *fakeAttendanceRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// staleReadRepo never sees an existing record, as when two requests pass the
// existence check before either inserts.
type staleReadRepo struct {
	*fakeAttendanceRepo
}

func (staleReadRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	return attendance.Record{}, pgx.ErrNoRows
}

// fakeUserRepo implements only what the attendance service calls.
type fakeUserRepo struct {
	user.UserRepository
	users []user.User
}

func (f *fakeUserRepo) ListIDsByRole(ctx context.Context, role user.Role) ([]string, error) {
	var ids []string
	for _, u := range f.users {
		if u.Role == role && u.DeletedAt == nil {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, pgx.ErrNoRows
}

type fakeQRService struct {
	valid map[string]qrtoken.Type
}

func (f *fakeQRService) Generate(ctx context.Context) (qrtoken.GenerateResult, error) {
	return qrtoken.GenerateResult{}, nil
}

func (f *fakeQRService) Validate(ctx context.Context, token string) (qrtoken.QRToken, error) {
	typ, ok := f.valid[token]
	if !ok {
		return qrtoken.QRToken{}, qrtoken.ErrInvalidOrExpiredToken
	}
	return qrtoken.QRToken{Token: token, Type: typ}, nil
}

func (f *fakeQRService) Latest(ctx context.Context) (qrtoken.QRTokenResponse, error) {
	return qrtoken.QRTokenResponse{}, qrtoken.ErrNoActiveToken
}

type staticSettings struct {
	settings settings.Settings
}

func (s staticSettings) Current(ctx context.Context) (settings.Settings, error) {
	return s.settings, nil
}

type fakeFileService struct {
	mu        sync.Mutex
	staged    map[string]string
	committed map[string]string
	deleted   []string
}

func (f *fakeFileService) StageAttachment(ctx context.Context, file io.Reader, filename string) (fileSvc.StagedAttachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.staged == nil {
		f.staged = make(map[string]string)
	}
	p := fmt.Sprintf("attachments/staging/%d.pdf", len(f.staged)+1)
	f.staged[p] = filename
	return fileSvc.StagedAttachment{Path: p, Ext: "pdf"}, nil
}

func (f *fakeFileService) CommitAttachment(ctx context.Context, staged fileSvc.StagedAttachment, finalPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.committed == nil {
		f.committed = make(map[string]string)
	}
	f.committed[finalPath] = staged.Path
	return nil
}

func (f *fakeFileService) DeleteFile(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeFileService) GetFileURL(path string) string {
	return "http://localhost/uploads/" + path
}
