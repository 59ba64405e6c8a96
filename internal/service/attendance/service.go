package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/qrtoken"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/absensi-backend-go/internal/service/file"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/cmlabs-hris/absensi-backend-go/internal/service/attendance")

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	qrService   qrtoken.QRTokenService
	settings    settings.Provider
	fileService file.FileService
	loc         *time.Location
	now         func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	qrService qrtoken.QRTokenService,
	settingsProvider settings.Provider,
	fileService file.FileService,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		qrService:            qrService,
		settings:             settingsProvider,
		fileService:          fileService,
		loc:                  loc,
		now:                  time.Now,
	}
}

// Scan implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Scan(ctx context.Context, req attendance.ScanRequest) (resp attendance.ScanResponse, err error) {
	ctx, span := tracer.Start(ctx, "attendance.Scan")
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return attendance.ScanResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.ScanResponse{}, err
	}
	if !actor.Can(user.PermissionAttendanceScan) {
		return attendance.ScanResponse{}, attendance.ErrForbidden
	}
	span.SetAttributes(attribute.String("employee.id", actor.ID))

	if _, err := s.qrService.Validate(ctx, req.Token); err != nil {
		return attendance.ScanResponse{}, err
	}

	current, err := s.settings.Current(ctx)
	if err != nil {
		return attendance.ScanResponse{}, err
	}

	inside, distanceKm := utils.WithinRadius(req.Latitude, req.Longitude, current.OfficeLat, current.OfficeLon, current.RadiusMeters)
	distanceMeters := distanceKm * 1000
	span.SetAttributes(attribute.Float64("geofence.distance_m", distanceMeters))
	if !inside {
		return attendance.ScanResponse{}, &attendance.OutOfRangeError{
			DistanceMeters: distanceMeters,
			RadiusMeters:   current.RadiusMeters,
		}
	}

	now := s.now().In(s.loc)
	today := utils.StartOfDay(now, s.loc)
	location := utils.FormatCoordinate(req.Latitude, req.Longitude)

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, actor.ID, today)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return attendance.ScanResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		record, err := s.checkIn(ctx, actor.ID, now, today, location, current)
		if err != nil {
			return attendance.ScanResponse{}, err
		}
		span.SetAttributes(attribute.String("attendance.action", string(attendance.ActionCheckIn)))
		return attendance.ScanResponse{
			Action:         attendance.ActionCheckIn,
			DistanceMeters: distanceMeters,
			Record:         s.recordResponse(record),
		}, nil
	}

	// Leave requests and Alpha records occupy the date without a check-in.
	if !existing.IsCheckedIn() {
		return attendance.ScanResponse{}, attendance.ErrDuplicateRecord
	}
	if existing.IsCheckedOut() {
		return attendance.ScanResponse{}, attendance.ErrAlreadyCompleted
	}

	checkOutFrom, err := utils.AtClock(now, current.CheckOutTime, s.loc)
	if err != nil {
		return attendance.ScanResponse{}, fmt.Errorf("invalid check-out time setting: %w", err)
	}
	if now.Before(checkOutFrom) {
		return attendance.ScanResponse{}, attendance.ErrCheckOutTooEarly
	}

	record, err := s.AttendanceRepository.CompleteCheckOut(ctx, existing.ID, now, location)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCompleted) {
			return attendance.ScanResponse{}, err
		}
		return attendance.ScanResponse{}, fmt.Errorf("failed to check out: %w", err)
	}

	slog.Info("Employee checked out", "employee_id", actor.ID, "date", today.Format(utils.DateLayout))
	span.SetAttributes(attribute.String("attendance.action", string(attendance.ActionCheckOut)))
	return attendance.ScanResponse{
		Action:         attendance.ActionCheckOut,
		DistanceMeters: distanceMeters,
		Record:         s.recordResponse(record),
	}, nil
}

func (s *AttendanceServiceImpl) checkIn(ctx context.Context, employeeID string, now, today time.Time, location string, current settings.Settings) (attendance.Record, error) {
	start, err := utils.AtClock(now, current.CheckInStart, s.loc)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("invalid check-in start setting: %w", err)
	}
	end, err := utils.AtClock(now, current.CheckInEnd, s.loc)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("invalid check-in end setting: %w", err)
	}
	// The end minute itself still counts.
	if now.Before(start) || !now.Before(end.Add(time.Minute)) {
		return attendance.Record{}, attendance.ErrOutsideCheckInWindow
	}

	cutoff, err := utils.AtClock(now, current.LateTolerance, s.loc)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("invalid late tolerance setting: %w", err)
	}

	approved := attendance.ApprovalApproved
	record := attendance.Record{
		EmployeeID:      employeeID,
		Date:            today,
		CheckInAt:       &now,
		Outcome:         attendance.DeriveOutcome(now, cutoff),
		CheckInLocation: &location,
		ApprovalStatus:  &approved,
	}

	var created attendance.Record
	err = retryTransient(ctx, func() error {
		var err error
		created, err = s.AttendanceRepository.InsertIfAbsent(ctx, record)
		return err
	})
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to check in: %w", err)
	}

	slog.Info("Employee checked in", "employee_id", employeeID, "outcome", created.Outcome, "date", today.Format(utils.DateLayout))
	return created, nil
}

// SubmitLeaveRequest implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SubmitLeaveRequest(ctx context.Context, req attendance.LeaveRequest) (resp attendance.RecordResponse, err error) {
	ctx, span := tracer.Start(ctx, "attendance.SubmitLeaveRequest")
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !actor.Can(user.PermissionLeaveCreate) {
		return attendance.RecordResponse{}, attendance.ErrForbidden
	}

	date := time.Date(req.ParsedDate.Year(), req.ParsedDate.Month(), req.ParsedDate.Day(), 0, 0, 0, 0, s.loc)
	if date.After(utils.StartOfDay(s.now(), s.loc)) {
		return attendance.RecordResponse{}, attendance.ErrDateInFuture
	}

	_, err = s.AttendanceRepository.GetByEmployeeAndDate(ctx, actor.ID, date)
	if err == nil {
		return attendance.RecordResponse{}, attendance.ErrDuplicateRecord
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.RecordResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}

	// The final attachment name is derived from employee and date, so the file
	// only moves there once the insert has claimed the date.
	staged, err := s.fileService.StageAttachment(ctx, req.File, req.FileHeader.Filename)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	attachmentPath := staged.FinalPath(actor.ID, date)

	leaveType := req.LeaveType
	pending := attendance.ApprovalPending
	reason := req.Reason
	created, err := s.AttendanceRepository.InsertIfAbsent(ctx, attendance.Record{
		EmployeeID:     actor.ID,
		Date:           date,
		Outcome:        attendance.OutcomeAbsent,
		LeaveType:      &leaveType,
		Reason:         &reason,
		AttachmentPath: &attachmentPath,
		ApprovalStatus: &pending,
	})
	if err != nil {
		if delErr := s.fileService.DeleteFile(ctx, staged.Path); delErr != nil {
			slog.Warn("Failed to remove staged attachment", "path", staged.Path, "error", delErr)
		}
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			return attendance.RecordResponse{}, err
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	if err := s.fileService.CommitAttachment(ctx, staged, attachmentPath); err != nil {
		slog.Error("Leave request saved without its attachment", "record_id", created.ID, "staged_path", staged.Path, "error", err)
	}

	slog.Info("Leave request submitted", "employee_id", actor.ID, "type", leaveType, "date", date.Format(utils.DateLayout))
	return s.recordResponse(created), nil
}

// ListOwnHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListOwnHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.ListRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListRecordResponse{}, err
	}
	if !actor.Can(user.PermissionAttendanceViewOwn) {
		return attendance.ListRecordResponse{}, attendance.ErrForbidden
	}

	listFilter := s.dateRange(filter)
	listFilter.EmployeeID = &actor.ID

	return s.list(ctx, listFilter)
}

// ListLeaveRequests implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListLeaveRequests(ctx context.Context, filter attendance.LeaveRequestFilter) (attendance.ListRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordResponse{}, err
	}

	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListRecordResponse{}, err
	}

	listFilter := attendance.ListFilter{
		LeaveOnly: true,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}
	if !actor.CanViewAll() {
		listFilter.EmployeeID = &actor.ID
	}
	if filter.Status != nil && *filter.Status != "" {
		status := attendance.ApprovalStatus(*filter.Status)
		listFilter.ApprovalStatus = &status
	}

	return s.list(ctx, listFilter)
}

// Approve implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Approve(ctx context.Context, id string) (attendance.RecordResponse, error) {
	actor, err := s.approver(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return s.transition(ctx, id, attendance.ApprovalApproved, actor, "Approved by "+actor.Name)
}

// Reject implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Reject(ctx context.Context, req attendance.RejectRequest) (attendance.RecordResponse, error) {
	actor, err := s.approver(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	return s.transition(ctx, req.ID, attendance.ApprovalRejected, actor, req.Reason)
}

func (s *AttendanceServiceImpl) approver(ctx context.Context) (user.Actor, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return user.Actor{}, err
	}
	if !actor.CanApprove() {
		return user.Actor{}, attendance.ErrApproverRequired
	}
	if actor.Name == "" {
		approver, err := s.UserRepository.GetByID(ctx, actor.ID)
		if err != nil {
			return user.Actor{}, fmt.Errorf("failed to get approver: %w", err)
		}
		actor.Name = approver.Name
	}
	return actor, nil
}

func (s *AttendanceServiceImpl) transition(ctx context.Context, id string, to attendance.ApprovalStatus, actor user.Actor, comment string) (resp attendance.RecordResponse, err error) {
	ctx, span := tracer.Start(ctx, "attendance.Transition", trace.WithAttributes(
		attribute.String("attendance.id", id),
		attribute.String("approval.to", string(to)),
	))
	defer func() { endSpan(span, err) }()

	if !validator.IsValidUUID(id) {
		return attendance.RecordResponse{}, attendance.ErrRecordNotFound
	}

	record, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.RecordResponse{}, attendance.ErrRecordNotFound
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if !record.IsLeaveRequest() || record.ApprovalStatus == nil {
		return attendance.RecordResponse{}, attendance.ErrNotLeaveRequest
	}
	if record.EmployeeID == actor.ID {
		return attendance.RecordResponse{}, attendance.ErrSelfApproval
	}
	if !attendance.ValidTransition(*record.ApprovalStatus, to) {
		return attendance.RecordResponse{}, attendance.ErrAlreadyProcessed
	}

	updated, err := s.AttendanceRepository.TransitionApproval(ctx, id, *record.ApprovalStatus, to, actor.ID, comment)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyProcessed) {
			return attendance.RecordResponse{}, err
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to update approval status: %w", err)
	}

	slog.Info("Leave request processed", "id", id, "status", to, "approver_id", actor.ID)
	return s.recordResponse(updated), nil
}

// ListAll implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAll(ctx context.Context, filter attendance.HistoryFilter) (attendance.ListRecordResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListRecordResponse{}, err
	}
	if !actor.CanViewAll() {
		return attendance.ListRecordResponse{}, attendance.ErrForbidden
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordResponse{}, err
	}

	return s.list(ctx, s.dateRange(filter))
}

// GenerateAutoAbsences implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GenerateAutoAbsences(ctx context.Context) (result attendance.AutoAbsenceResult, err error) {
	ctx, span := tracer.Start(ctx, "attendance.GenerateAutoAbsences")
	defer func() { endSpan(span, err) }()

	now := s.now().In(s.loc)
	today := utils.StartOfDay(now, s.loc)
	result = attendance.AutoAbsenceResult{
		Date:        today.Format(utils.DateLayout),
		EmployeeIDs: []string{},
	}

	if utils.IsWeekend(now, s.loc) {
		result.Skipped = true
		return result, nil
	}

	employeeIDs, err := s.UserRepository.ListIDsByRole(ctx, user.RolePegawai)
	if err != nil {
		return attendance.AutoAbsenceResult{}, fmt.Errorf("failed to list pegawai: %w", err)
	}
	if len(employeeIDs) == 0 {
		return result, nil
	}

	var inserted []string
	err = retryTransient(ctx, func() error {
		var err error
		inserted, err = s.AttendanceRepository.InsertAbsences(ctx, employeeIDs, today)
		return err
	})
	if err != nil {
		return attendance.AutoAbsenceResult{}, fmt.Errorf("failed to insert absences: %w", err)
	}

	if inserted != nil {
		result.EmployeeIDs = inserted
	}
	result.Generated = len(result.EmployeeIDs)
	span.SetAttributes(attribute.Int("absences.generated", result.Generated))

	return result, nil
}

func (s *AttendanceServiceImpl) dateRange(filter attendance.HistoryFilter) attendance.ListFilter {
	listFilter := attendance.ListFilter{Page: filter.Page, Limit: filter.Limit}
	if filter.StartDate != nil && *filter.StartDate != "" {
		if d, err := time.ParseInLocation(utils.DateLayout, *filter.StartDate, s.loc); err == nil {
			listFilter.StartDate = &d
		}
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		if d, err := time.ParseInLocation(utils.DateLayout, *filter.EndDate, s.loc); err == nil {
			listFilter.EndDate = &d
		}
	}
	return listFilter
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.ListFilter) (attendance.ListRecordResponse, error) {
	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListRecordResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}
	resp := attendance.NewListRecordResponse(records, total, filter.Page, filter.Limit)
	for i := range resp.Records {
		s.attachURL(&resp.Records[i])
	}
	return resp, nil
}

func (s *AttendanceServiceImpl) recordResponse(r attendance.Record) attendance.RecordResponse {
	resp := attendance.NewRecordResponse(r)
	s.attachURL(&resp)
	return resp
}

func (s *AttendanceServiceImpl) attachURL(resp *attendance.RecordResponse) {
	if resp.AttachmentPath == nil {
		return
	}
	url := s.fileService.GetFileURL(*resp.AttachmentPath)
	resp.AttachmentURL = &url
}

// retryTransient runs fn again once when the first attempt hit a transient database error.
func retryTransient(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || !database.IsTransient(err) || ctx.Err() != nil {
		return err
	}
	slog.Warn("Retrying after transient database error", "error", err)
	return fn()
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
