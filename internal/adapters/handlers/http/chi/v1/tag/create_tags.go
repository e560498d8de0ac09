package tag

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"unicode"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

const maxTagLength = 50

// V1CreateTagsRequest is the body request for Create Tags
type V1CreateTagsRequest struct {
	Tags []string `json:"tags"`
}

// CreateTagsV1 is the handler for create tags v1. Existing tags are ignored.
func (h *HandlerV1) CreateTagsV1(w http.ResponseWriter, r *http.Request) {
	var req V1CreateTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding create tags request", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if len(req.Tags) == 0 {
		http.Error(w, "tags required", http.StatusUnprocessableEntity)
		return
	}
	for _, tag := range req.Tags {
		if err := validateTag(tag); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	err := h.tagService.CreateTags(r.Context(), req.Tags)
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case err != nil:
		h.logger.Error("error creating tags", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusCreated)
	}
}

// validateTag accepts letters, digits, spaces and dashes
func validateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("tag cannot be empty")
	}
	if len(tag) > maxTagLength {
		return fmt.Errorf("tag %q longer than %d characters", tag, maxTagLength)
	}
	for _, char := range tag {
		if !unicode.IsLetter(char) && !unicode.IsDigit(char) && char != ' ' && char != '-' {
			return fmt.Errorf("tag %q contains invalid characters", tag)
		}
	}
	return nil
}
