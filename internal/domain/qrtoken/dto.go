package qrtoken

import "time"

type QRTokenResponse struct {
	Token     string `json:"token"`
	Type      Type   `json:"type"`
	ExpiresAt string `json:"expires_at"`
	CreatedAt string `json:"created_at"`
}

func NewQRTokenResponse(q QRToken) QRTokenResponse {
	return QRTokenResponse{
		Token:     q.Token,
		Type:      q.Type,
		ExpiresAt: q.ExpiresAt.Format(time.RFC3339),
		CreatedAt: q.CreatedAt.Format(time.RFC3339),
	}
}

type GenerateResult struct {
	Generated bool             `json:"generated"`
	Message   string           `json:"message"`
	Token     *QRTokenResponse `json:"token,omitempty"`
}
