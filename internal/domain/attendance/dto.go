package attendance

import (
	"math"
	"mime/multipart"
	"strings"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
)

// ========================================
// SCAN DTOs
// ========================================

type ScanRequest struct {
	Token     string  `json:"token"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *ScanRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Token = strings.TrimSpace(r.Token)
	if validator.IsEmpty(r.Token) {
		errs.Add("token", "token is required")
	}
	if !validator.IsValidLatitude(r.Latitude) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if !validator.IsValidLongitude(r.Longitude) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}

	return errs.Err()
}

type ScanAction string

const (
	ActionCheckIn  ScanAction = "checkin"
	ActionCheckOut ScanAction = "checkout"
)

type ScanResponse struct {
	Action         ScanAction     `json:"action"`
	DistanceMeters float64        `json:"distance_meters"`
	Record         RecordResponse `json:"record"`
}

// ========================================
// LEAVE REQUEST DTOs
// ========================================

const (
	MaxAttachmentSize = 2048 << 10
	MaxReasonLength   = 500
)

var AllowedAttachmentExtensions = []string{"pdf", "jpg", "jpeg", "png"}

type LeaveRequest struct {
	Date       string                `json:"date"`
	Type       string                `json:"type"`
	Reason     string                `json:"reason"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`

	// Set by Validate.
	ParsedDate time.Time `json:"-"`
	LeaveType  LeaveType `json:"-"`
}

func (r *LeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if d, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	} else {
		r.ParsedDate = d
	}

	if lt, ok := ParseLeaveType(r.Type); ok {
		r.LeaveType = lt
	} else {
		errs.Add("type", "type must be one of: izin, sakit, cuti")
	}

	r.Reason = strings.TrimSpace(r.Reason)
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if len([]rune(r.Reason)) > MaxReasonLength {
		errs.Add("reason", "reason must not exceed 500 characters")
	}

	if r.FileHeader == nil {
		errs.Add("attachment", "attachment is required")
	} else if !validator.HasExtension(r.FileHeader.Filename, AllowedAttachmentExtensions) {
		errs.Add("attachment", "invalid file type: only pdf, jpg, jpeg, png allowed")
	} else if r.FileHeader.Size > MaxAttachmentSize {
		errs.Add("attachment", "attachment size must not exceed 2048 KB")
	}

	return errs.Err()
}

type RejectRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

// DefaultRejectReason is stored when the approver gives no reason.
const DefaultRejectReason = "No reason given"

func (r *RejectRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Reason = strings.TrimSpace(r.Reason)
	if len([]rune(r.Reason)) > MaxReasonLength {
		errs.Add("reason", "reason must not exceed 500 characters")
	}
	if r.Reason == "" {
		r.Reason = DefaultRejectReason
	}

	return errs.Err()
}

// ========================================
// FILTER DTOs
// ========================================

type HistoryFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	validatePagination(&errs, &f.Page, &f.Limit)

	var start, end time.Time
	if f.StartDate != nil && *f.StartDate != "" {
		d, ok := validator.IsValidDate(*f.StartDate)
		if !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
		start = d
	}
	if f.EndDate != nil && *f.EndDate != "" {
		d, ok := validator.IsValidDate(*f.EndDate)
		if !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
		end = d
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	return errs.Err()
}

type LeaveRequestFilter struct {
	Status *string `json:"status,omitempty"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	validatePagination(&errs, &f.Page, &f.Limit)

	if f.Status != nil && *f.Status != "" {
		status := strings.ToLower(*f.Status)
		f.Status = &status
		if !ApprovalStatus(status).IsValid() {
			errs.Add("status", "status must be one of: pending, approved, rejected")
		}
	}

	return errs.Err()
}

func validatePagination(errs *validator.ValidationErrors, page, limit *int) {
	if *page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if *page == 0 {
		*page = 1
	}
	if *limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if *limit == 0 {
		*limit = 20
	}
	if *limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
}

// ========================================
// RESPONSE DTOs
// ========================================

type RecordResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     *string `json:"employee_name,omitempty"`
	Date             string  `json:"date"`
	CheckInAt        *string `json:"check_in_at,omitempty"`
	CheckOutAt       *string `json:"check_out_at,omitempty"`
	Outcome          Outcome `json:"outcome"`
	LeaveType        *string `json:"leave_type,omitempty"`
	Status           string  `json:"status"`
	CheckInLocation  *string `json:"check_in_location,omitempty"`
	CheckOutLocation *string `json:"check_out_location,omitempty"`
	Reason           *string `json:"reason,omitempty"`
	AttachmentPath   *string `json:"attachment_path,omitempty"`
	AttachmentURL    *string `json:"attachment_url,omitempty"`
	ApprovalStatus   *string `json:"approval_status,omitempty"`
	ApprovedBy       *string `json:"approved_by,omitempty"`
	ApproverName     *string `json:"approver_name,omitempty"`
	ApprovalComment  *string `json:"approval_comment,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func NewRecordResponse(r Record) RecordResponse {
	resp := RecordResponse{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		EmployeeName:     r.EmployeeName,
		Date:             r.Date.Format(utils.DateLayout),
		Outcome:          r.Outcome,
		Status:           r.Label(),
		CheckInLocation:  r.CheckInLocation,
		CheckOutLocation: r.CheckOutLocation,
		Reason:           r.Reason,
		AttachmentPath:   r.AttachmentPath,
		ApprovedBy:       r.ApprovedBy,
		ApproverName:     r.ApproverName,
		ApprovalComment:  r.ApprovalComment,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        r.UpdatedAt.Format(time.RFC3339),
	}
	if r.CheckInAt != nil {
		s := r.CheckInAt.Format(time.RFC3339)
		resp.CheckInAt = &s
	}
	if r.CheckOutAt != nil {
		s := r.CheckOutAt.Format(time.RFC3339)
		resp.CheckOutAt = &s
	}
	if r.LeaveType != nil {
		s := string(*r.LeaveType)
		resp.LeaveType = &s
	}
	if r.ApprovalStatus != nil {
		s := string(*r.ApprovalStatus)
		resp.ApprovalStatus = &s
	}
	return resp
}

type ListRecordResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}

func NewListRecordResponse(records []Record, total int64, page, limit int) ListRecordResponse {
	items := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		items = append(items, NewRecordResponse(r))
	}
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return ListRecordResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Records:    items,
	}
}

type AutoAbsenceResult struct {
	Date        string   `json:"date"`
	Skipped     bool     `json:"skipped"`
	Generated   int      `json:"generated"`
	EmployeeIDs []string `json:"employee_ids"`
}
