package attendance

import (
	"context"
)

type AttendanceService interface {
	// Scan checks in on the first valid scan of the day and checks out on the second.
	Scan(ctx context.Context, req ScanRequest) (ScanResponse, error)

	SubmitLeaveRequest(ctx context.Context, req LeaveRequest) (RecordResponse, error)

	ListOwnHistory(ctx context.Context, filter HistoryFilter) (ListRecordResponse, error)

	// ListLeaveRequests is scoped to the caller for pegawai and unscoped for admin and hr.
	ListLeaveRequests(ctx context.Context, filter LeaveRequestFilter) (ListRecordResponse, error)

	Approve(ctx context.Context, id string) (RecordResponse, error)
	Reject(ctx context.Context, req RejectRequest) (RecordResponse, error)

	ListAll(ctx context.Context, filter HistoryFilter) (ListRecordResponse, error)

	// GenerateAutoAbsences backfills Alpha records for today. It is a no-op on weekends.
	GenerateAutoAbsences(ctx context.Context) (AutoAbsenceResult, error)
}
