package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/qrtoken"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/response"
)

type QRHandler interface {
	Latest(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
}

type qrHandlerImpl struct {
	qrService qrtoken.QRTokenService
}

func NewQRHandler(qrService qrtoken.QRTokenService) QRHandler {
	return &qrHandlerImpl{qrService: qrService}
}

// Latest returns the token currently shown on the office display.
func (h *qrHandlerImpl) Latest(w http.ResponseWriter, r *http.Request) {
	token, err := h.qrService.Latest(r.Context())
	if err != nil {
		if !errors.Is(err, qrtoken.ErrNoActiveToken) {
			slog.Error("Latest QR service error", "error", err)
		}
		response.HandleError(w, err)
		return
	}
	response.Success(w, token)
}

func (h *qrHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	result, err := h.qrService.Generate(r.Context())
	if err != nil {
		slog.Error("Generate QR service error", "error", err)
		response.HandleError(w, err)
		return
	}
	if result.Generated {
		response.Created(w, result.Message, result)
		return
	}
	response.SuccessWithMessage(w, result.Message, result)
}
