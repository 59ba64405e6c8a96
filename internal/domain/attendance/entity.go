package attendance

import (
	"strings"
	"time"
)

// Outcome is what happened on the day, independent of why.
type Outcome string

const (
	OutcomePresent Outcome = "present"
	OutcomeLate    Outcome = "late"
	OutcomeAbsent  Outcome = "absent"
)

// LeaveType is set only on records created by a leave request.
type LeaveType string

const (
	LeaveIzin  LeaveType = "izin"
	LeaveSakit LeaveType = "sakit"
	LeaveCuti  LeaveType = "cuti"
)

var LeaveTypes = []LeaveType{LeaveIzin, LeaveSakit, LeaveCuti}

// ParseLeaveType accepts the lowercase and capitalized spellings.
func ParseLeaveType(s string) (LeaveType, bool) {
	lt := LeaveType(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range LeaveTypes {
		if v == lt {
			return lt, true
		}
	}
	return "", false
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) IsValid() bool {
	return s == ApprovalPending || s == ApprovalApproved || s == ApprovalRejected
}

// Display labels used by the mobile and web clients.
const (
	LabelHadir     = "Hadir"
	LabelTerlambat = "Terlambat"
	LabelIzin      = "Izin"
	LabelSakit     = "Sakit"
	LabelCuti      = "Cuti"
	LabelAlpha     = "Alpha"
)

// Record is the single attendance row of an employee for a calendar date.
type Record struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	CheckInAt        *time.Time
	CheckOutAt       *time.Time
	Outcome          Outcome
	LeaveType        *LeaveType
	CheckInLocation  *string
	CheckOutLocation *string
	Reason           *string
	AttachmentPath   *string
	ApprovalStatus   *ApprovalStatus
	ApprovedBy       *string
	ApprovalComment  *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined
	EmployeeName *string
	ApproverName *string
}

func (r Record) IsLeaveRequest() bool {
	return r.LeaveType != nil
}

// IsAlpha reports an unexcused absence created by the backfill job.
func (r Record) IsAlpha() bool {
	return r.Outcome == OutcomeAbsent && r.LeaveType == nil
}

func (r Record) IsCheckedIn() bool {
	return r.CheckInAt != nil
}

func (r Record) IsCheckedOut() bool {
	return r.CheckOutAt != nil
}

func (r Record) Label() string {
	if r.LeaveType != nil {
		switch *r.LeaveType {
		case LeaveIzin:
			return LabelIzin
		case LeaveSakit:
			return LabelSakit
		case LeaveCuti:
			return LabelCuti
		}
	}
	switch r.Outcome {
	case OutcomePresent:
		return LabelHadir
	case OutcomeLate:
		return LabelTerlambat
	}
	return LabelAlpha
}

// DeriveOutcome classifies a check-in against the late tolerance cutoff.
// Checking in exactly at the cutoff is still on time.
func DeriveOutcome(checkInAt, lateCutoff time.Time) Outcome {
	if checkInAt.After(lateCutoff) {
		return OutcomeLate
	}
	return OutcomePresent
}
