package share

import (
	"encoding/json"
	"net/http"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

// V1ShareByEmailRequest is what a visitor submits to forward a shared video
type V1ShareByEmailRequest struct {
	Emails     string `json:"emails"`
	SenderName string `json:"senderName"`
	Message    string `json:"message"`
}

// ShareByEmailV1 mails the share link to up to five recipients
func (h *HandlerV1) ShareByEmailV1(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	var req V1ShareByEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding share email request", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	err := h.videoService.ShareByEmail(r.Context(), token, domain.ShareEmailRequest{
		Recipients: req.Emails,
		SenderName: req.SenderName,
		Message:    req.Message,
	})
	if err != nil {
		h.fail(w, "email", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
