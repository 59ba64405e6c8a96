package response

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/qrtoken"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var outOfRange *attendance.OutOfRangeError
	if errors.As(err, &outOfRange) {
		ConflictWithDetails(w, outOfRange.Error(), map[string]string{
			"distance_meters": fmt.Sprintf("%.0f", outOfRange.DistanceMeters),
			"radius_meters":   strconv.Itoa(outOfRange.RadiusMeters),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked),
		errors.Is(err, auth.ErrRefreshTokenCookieNotFound),
		errors.Is(err, auth.ErrUnauthenticated):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrGoogleAccountNotLinked),
		errors.Is(err, auth.ErrGoogleEmailNotVerified):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrGoogleLoginDisabled):
		NotFound(w, err.Error())
	case errors.Is(err, auth.ErrStateMismatch):
		BadRequest(w, err.Error(), nil)

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, user.ErrCannotManageRole),
		errors.Is(err, user.ErrCannotDeleteSelf),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrHRAccessRequired):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, attendance.ErrOutOfRange),
		errors.Is(err, attendance.ErrDuplicateRecord),
		errors.Is(err, attendance.ErrAlreadyCompleted),
		errors.Is(err, attendance.ErrAlreadyProcessed),
		errors.Is(err, attendance.ErrOutsideCheckInWindow),
		errors.Is(err, attendance.ErrCheckOutTooEarly):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrForbidden),
		errors.Is(err, attendance.ErrApproverRequired),
		errors.Is(err, attendance.ErrSelfApproval):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrNotLeaveRequest):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrDateInFuture):
		ValidationError(w, map[string]string{"date": err.Error()})

	// QR token errors
	case errors.Is(err, qrtoken.ErrInvalidOrExpiredToken):
		Forbidden(w, err.Error())
	case errors.Is(err, qrtoken.ErrNoActiveToken):
		NotFound(w, err.Error())

	// Settings errors
	case errors.Is(err, settings.ErrSettingsNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, settings.ErrForbidden):
		Forbidden(w, err.Error())

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
