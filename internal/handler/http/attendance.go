package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// maxLeaveFormSize bounds the whole multipart body; the attachment limit itself
// is enforced by LeaveRequest.Validate.
const maxLeaveFormSize = 4 << 20

type AttendanceHandler interface {
	Scan(w http.ResponseWriter, r *http.Request)
	SubmitLeaveRequest(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	LeaveRequests(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	GenerateAutoAbsences(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Scan implements AttendanceHandler.
func (h *attendanceHandlerImpl) Scan(w http.ResponseWriter, r *http.Request) {
	var req attendance.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Scan decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.Scan(r.Context(), req)
	if err != nil {
		slog.Error("Scan service error", "error", err)
		response.HandleError(w, err)
		return
	}

	message := "Check-in successful"
	if result.Action == attendance.ActionCheckOut {
		message = "Check-out successful"
	}
	response.SuccessWithMessage(w, message, result)
}

// SubmitLeaveRequest implements AttendanceHandler.
func (h *attendanceHandlerImpl) SubmitLeaveRequest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLeaveFormSize)
	if err := r.ParseMultipartForm(maxLeaveFormSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.ValidationError(w, map[string]string{"attachment": "attachment size must not exceed 2048 KB"})
			return
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	req := attendance.LeaveRequest{
		Date:   r.FormValue("date"),
		Type:   r.FormValue("type"),
		Reason: r.FormValue("reason"),
	}

	file, fileHeader, err := r.FormFile("attachment")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	if file != nil {
		defer file.Close()
		req.File = file
		req.FileHeader = fileHeader
	}

	result, err := h.attendanceService.SubmitLeaveRequest(r.Context(), req)
	if err != nil {
		slog.Error("SubmitLeaveRequest service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

func pagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

func historyFilter(r *http.Request) attendance.HistoryFilter {
	filter := attendance.HistoryFilter{}
	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}
	filter.Page, filter.Limit = pagination(r)
	return filter
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	results, err := h.attendanceService.ListOwnHistory(r.Context(), historyFilter(r))
	if err != nil {
		slog.Error("History service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, results)
}

// LeaveRequests implements AttendanceHandler.
func (h *attendanceHandlerImpl) LeaveRequests(w http.ResponseWriter, r *http.Request) {
	filter := attendance.LeaveRequestFilter{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	filter.Page, filter.Limit = pagination(r)

	results, err := h.attendanceService.ListLeaveRequests(r.Context(), filter)
	if err != nil {
		slog.Error("LeaveRequests service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, results)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.attendanceService.ListAll(r.Context(), historyFilter(r))
	if err != nil {
		slog.Error("List attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, results)
}

// Approve implements AttendanceHandler.
func (h *attendanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Approve service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request approved", result)
}

// Reject implements AttendanceHandler. The body is optional.
func (h *attendanceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req attendance.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Reject decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.attendanceService.Reject(r.Context(), req)
	if err != nil {
		slog.Error("Reject service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request rejected", result)
}

// GenerateAutoAbsences implements AttendanceHandler.
func (h *attendanceHandlerImpl) GenerateAutoAbsences(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GenerateAutoAbsences(r.Context())
	if err != nil {
		slog.Error("GenerateAutoAbsences service error", "error", err)
		response.HandleError(w, err)
		return
	}

	message := "Alpha records generated"
	if result.Skipped {
		message = "No Alpha records on weekends"
	}
	response.SuccessWithMessage(w, message, result)
}
