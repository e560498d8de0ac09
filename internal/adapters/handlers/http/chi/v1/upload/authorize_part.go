package upload

import (
	"net/http"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

// V1AuthorizePartRequest asks for a presigned url for one part
type V1AuthorizePartRequest struct {
	V1UploadRef
	PartNumber int `json:"partNumber"`
}

// V1AuthorizePartResponse carries the presigned PUT url
type V1AuthorizePartResponse struct {
	URL string `json:"url"`
}

// AuthorizePartV1 presigns the upload of one part
func (h *HandlerV1) AuthorizePartV1(w http.ResponseWriter, r *http.Request) {
	var req V1AuthorizePartRequest
	owner, videoID, ok := h.request(w, r, &req)
	if !ok {
		return
	}

	url, err := h.uploadService.AuthorizePart(r.Context(), owner, domain.UploadRef{
		VideoID:    videoID,
		UploadID:   req.UploadID,
		StorageKey: req.Key,
	}, req.PartNumber)
	if err != nil {
		h.fail(w, "authorize_part", err)
		return
	}

	h.respond(w, http.StatusOK, V1AuthorizePartResponse{URL: url})
}
