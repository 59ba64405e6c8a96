package attendance

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange       = errors.New("you are outside the allowed office radius")
	ErrDuplicateRecord  = errors.New("attendance record for this date already exists")
	ErrAlreadyCompleted = errors.New("you have already checked in and checked out today")
	ErrRecordNotFound   = errors.New("attendance record not found")
	ErrAlreadyProcessed = errors.New("leave request has already been approved or rejected")
	ErrNotLeaveRequest  = errors.New("attendance record is not a leave request")
	ErrForbidden        = errors.New("you are not allowed to access these attendance records")
	ErrApproverRequired = errors.New("only hr can approve or reject leave requests")
	ErrDateInFuture     = errors.New("leave request date cannot be in the future")
	ErrSelfApproval     = errors.New("you cannot approve or reject your own leave request")

	ErrOutsideCheckInWindow = errors.New("check-in is only allowed within the configured check-in window")
	ErrCheckOutTooEarly     = errors.New("check-out is not allowed before the configured check-out time")
)

// OutOfRangeError carries the measured distance so clients can show how far off the scan was.
type OutOfRangeError struct {
	DistanceMeters float64
	RadiusMeters   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %.0f m from office, allowed %d m", ErrOutOfRange.Error(), e.DistanceMeters, e.RadiusMeters)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRange
}
