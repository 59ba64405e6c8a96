package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// recordColumns must stay in the order expected by scanRecord.
const recordColumns = `
	a.id, a.employee_id, a.date, a.check_in_at, a.check_out_at,
	a.outcome, a.leave_type, a.check_in_location, a.check_out_location,
	a.reason, a.attachment_path, a.approval_status, a.approved_by, a.approval_comment,
	a.created_at, a.updated_at,
	e.name AS employee_name,
	ap.name AS approver_name`

const recordJoins = `
	FROM attendance_records a
	LEFT JOIN users e ON e.id = a.employee_id
	LEFT JOIN users ap ON ap.id = a.approved_by`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var r attendance.Record
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Date, &r.CheckInAt, &r.CheckOutAt,
		&r.Outcome, &r.LeaveType, &r.CheckInLocation, &r.CheckOutLocation,
		&r.Reason, &r.AttachmentPath, &r.ApprovalStatus, &r.ApprovedBy, &r.ApprovalComment,
		&r.CreatedAt, &r.UpdatedAt,
		&r.EmployeeName,
		&r.ApproverName,
	)
	return r, err
}

// getByID reads a record with its joined names. Writes use it to return the
// row in the same shape as reads.
func (a *attendanceRepository) getByID(ctx context.Context, q database.Querier, id string) (attendance.Record, error) {
	query := `SELECT ` + recordColumns + recordJoins + ` WHERE a.id = $1`
	return scanRecord(q.QueryRow(ctx, query, id))
}

// InsertIfAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) InsertIfAbsent(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			employee_id, date, check_in_at, outcome, leave_type, check_in_location,
			reason, attachment_path, approval_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.Date,
		record.CheckInAt,
		record.Outcome,
		record.LeaveType,
		record.CheckInLocation,
		record.Reason,
		record.AttachmentPath,
		record.ApprovalStatus,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrDuplicateRecord
		}
		return attendance.Record{}, fmt.Errorf("failed to insert attendance record: %w", err)
	}

	return a.getByID(ctx, q, id)
}

// CompleteCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) CompleteCheckOut(ctx context.Context, id string, at time.Time, location string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_out_at = $2, check_out_location = $3, updated_at = NOW()
		WHERE id = $1
		  AND check_in_at IS NOT NULL
		  AND check_out_at IS NULL
	`
	tag, err := q.Exec(ctx, query, id, at, location)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to complete check-out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Record{}, attendance.ErrAlreadyCompleted
	}

	return a.getByID(ctx, q, id)
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	return a.getByID(ctx, GetQuerier(ctx, a.db), id)
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)
	query := `SELECT ` + recordColumns + recordJoins + ` WHERE a.employee_id = $1 AND a.date = $2`
	return scanRecord(q.QueryRow(ctx, query, employeeID, date))
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.LeaveOnly {
		baseWhere += " AND a.leave_type IS NOT NULL"
	}
	if filter.ApprovalStatus != nil {
		baseWhere += fmt.Sprintf(" AND a.approval_status = $%d", argIdx)
		args = append(args, *filter.ApprovalStatus)
		argIdx++
	}
	if filter.StartDate != nil {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM attendance_records a WHERE ` + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	selectQuery := fmt.Sprintf(`SELECT %s %s
		WHERE %s
		ORDER BY a.date DESC, a.created_at DESC
		LIMIT $%d OFFSET $%d
	`, recordColumns, recordJoins, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	records := []attendance.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, total, nil
}

// TransitionApproval implements attendance.AttendanceRepository.
func (a *attendanceRepository) TransitionApproval(ctx context.Context, id string, from, to attendance.ApprovalStatus, approverID, comment string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET approval_status = $3, approved_by = $4, approval_comment = $5, updated_at = NOW()
		WHERE id = $1
		  AND leave_type IS NOT NULL
		  AND approval_status = $2
	`
	tag, err := q.Exec(ctx, query, id, from, to, approverID, comment)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to update approval status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Record{}, attendance.ErrAlreadyProcessed
	}

	return a.getByID(ctx, q, id)
}

// InsertAbsences implements attendance.AttendanceRepository.
func (a *attendanceRepository) InsertAbsences(ctx context.Context, employeeIDs []string, date time.Time) ([]string, error) {
	if len(employeeIDs) == 0 {
		return []string{}, nil
	}
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (employee_id, date, outcome)
		SELECT emp_id, $2::date, $3::varchar
		FROM unnest($1::uuid[]) AS emp_id
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING employee_id
	`
	rows, err := q.Query(ctx, query, employeeIDs, date, attendance.OutcomeAbsent)
	if err != nil {
		return nil, fmt.Errorf("failed to insert absences: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect inserted absences: %w", err)
	}
	return ids, nil
}
