package attendance

import (
	"context"
	"time"
)

type ListFilter struct {
	EmployeeID     *string
	LeaveOnly      bool
	ApprovalStatus *ApprovalStatus
	StartDate      *time.Time
	EndDate        *time.Time
	Page           int
	Limit          int
}

type AttendanceRepository interface {
	// InsertIfAbsent relies on the (employee_id, date) unique constraint and
	// returns ErrDuplicateRecord when a row already exists.
	InsertIfAbsent(ctx context.Context, record Record) (Record, error)

	// CompleteCheckOut fills the check-out fields only while they are still empty
	// and returns ErrAlreadyCompleted otherwise.
	CompleteCheckOut(ctx context.Context, id string, at time.Time, location string) (Record, error)

	GetByID(ctx context.Context, id string) (Record, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Record, error)
	List(ctx context.Context, filter ListFilter) ([]Record, int64, error)

	// TransitionApproval moves a record out of from and returns ErrAlreadyProcessed
	// when the record is no longer in that status.
	TransitionApproval(ctx context.Context, id string, from, to ApprovalStatus, approverID, comment string) (Record, error)

	// InsertAbsences creates Alpha records for the employees with no record on date
	// and returns the ids that were actually inserted.
	InsertAbsences(ctx context.Context, employeeIDs []string, date time.Time) ([]string, error)
}
