package upload_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	httpgo "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi"
	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/auth"
	uploadhandler "github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/v1/upload"
	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/service/upload"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func newRouter(svc *upload.MockUploadService) httpgo.Handler {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := uploadhandler.NewUploadHandlerV1(svc, discardLogger)
	return chi.NewRouter(discardLogger, chi.Handlers{Upload: handler}, chi.Options{JWTSecret: secret})
}

func newRequest(t *testing.T, owner uuid.UUID, path string, body string) *httpgo.Request {
	t.Helper()
	token, err := auth.IssueToken(secret, owner, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(httpgo.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestInitiateUploadV1(t *testing.T) {
	owner := uuid.New()

	t.Run("success", func(t *testing.T) {
		// Arrange
		videoID := uuid.New()
		svc := upload.NewMockUploadService()
		svc.On("InitiateUpload", mock.Anything, domain.InitiateUpload{
			OwnerID:     owner,
			Filename:    "talk.mp4",
			SizeBytes:   1024,
			MimeType:    "video/mp4",
			Title:       "Talk",
			Description: "desc",
		}).Return(&domain.InitiatedUpload{VideoID: videoID, UploadID: "up-1", StorageKey: "videos/k/talk.mp4"}, nil).Once()
		w := httptest.NewRecorder()
		req := newRequest(t, owner, "/api/v1/uploads",
			`{"filename":"talk.mp4","size":1024,"mimetype":"video/mp4","title":"Talk","description":"desc"}`)

		// Act
		newRouter(svc).ServeHTTP(w, req)

		// Assert
		assert.Equal(t, httpgo.StatusCreated, w.Code)
		var resp uploadhandler.V1InitiateUploadResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, videoID, resp.VideoID)
		assert.Equal(t, "up-1", resp.UploadID)
		assert.Equal(t, "videos/k/talk.mp4", resp.Key)
		svc.AssertExpectations(t)
	})

	t.Run("missing token", func(t *testing.T) {
		// Arrange
		svc := upload.NewMockUploadService()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/uploads", bytes.NewBufferString(`{}`))

		// Act
		newRouter(svc).ServeHTTP(w, req)

		// Assert
		assert.Equal(t, httpgo.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "InitiateUpload", mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		// Arrange
		svc := upload.NewMockUploadService()
		w := httptest.NewRecorder()

		// Act
		newRouter(svc).ServeHTTP(w, newRequest(t, owner, "/api/v1/uploads", `{"size": "big"`))

		// Assert
		assert.Equal(t, httpgo.StatusBadRequest, w.Code)
	})

	errCases := []struct {
		name string
		err  error
		code int
	}{
		{"too big", errors.Join(domain.ErrValidation, domain.ErrFileSizeTooBig), httpgo.StatusUnprocessableEntity},
		{"storage refused", domain.ErrUploadInitFailed, httpgo.StatusBadGateway},
		{"database down", errors.New("connection refused"), httpgo.StatusInternalServerError},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			svc := upload.NewMockUploadService()
			svc.On("InitiateUpload", mock.Anything, mock.Anything).Return(nil, tc.err).Once()
			w := httptest.NewRecorder()

			// Act
			newRouter(svc).ServeHTTP(w, newRequest(t, owner, "/api/v1/uploads", `{"filename":"a.mp4"}`))

			// Assert
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestAuthorizePartV1(t *testing.T) {
	owner := uuid.New()
	videoID := uuid.New()
	ref := domain.UploadRef{VideoID: videoID, UploadID: "up-1", StorageKey: "videos/k/a.mp4"}

	t.Run("success", func(t *testing.T) {
		// Arrange
		svc := upload.NewMockUploadService()
		svc.On("AuthorizePart", mock.Anything, owner, ref, 3).Return("https://minio/presigned", nil).Once()
		w := httptest.NewRecorder()

		// Act
		newRouter(svc).ServeHTTP(w, newRequest(t, owner, "/api/v1/uploads/"+videoID.String()+"/parts",
			`{"uploadId":"up-1","key":"videos/k/a.mp4","partNumber":3}`))

		// Assert
		assert.Equal(t, httpgo.StatusOK, w.Code)
		var resp uploadhandler.V1AuthorizePartResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "https://minio/presigned", resp.URL)
	})

	t.Run("foreign video is forbidden", func(t *testing.T) {
		// Arrange
		svc := upload.NewMockUploadService()
		svc.On("AuthorizePart", mock.Anything, owner, ref, 1).Return("", domain.ErrUnauthorized).Once()
		w := httptest.NewRecorder()

		// Act
		newRouter(svc).ServeHTTP(w, newRequest(t, owner, "/api/v1/uploads/"+videoID.String()+"/parts",
			`{"uploadId":"up-1","key":"videos/k/a.mp4","partNumber":1}`))

		// Assert
		assert.Equal(t, httpgo.StatusForbidden, w.Code)
	})

	t.Run("presign failure is a bad gateway", func(t *testing.T) {
		// Arrange
		svc := upload.NewMockUploadService()
		svc.On("AuthorizePart", mock.Anything, owner, ref, 2).
			Return("", fmt.Errorf("%w: %w", domain.ErrStorage, errors.New("minio unreachable"))).Once()
		w := httptest.NewRecorder()

		// Act
		newRouter(svc).ServeHTTP(w, newRequest(t, owner, "/api/v1/uploads/"+videoID.String()+"/parts",
			`{"uploadId":"up-1","key":"videos/k/a.mp4","partNumber":2}`))

		// Assert
		assert.Equal(t, httpgo.StatusBadGateway, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("invalid video id", func(t *testing.T) {
		// Arrange
		svc := upload.NewMockUploadService()
		w := httptest.NewRecorder()

		// Act
		newRouter(svc).ServeHTTP(w, newRequest(t, owner, "/api/v1/uploads/not-a-uuid/parts", `{}`))

		// Assert
		assert.Equal(t, httpgo.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "AuthorizePart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCompleteUploadV1(t *testing.T) {
	owner := uuid.New()
	videoID := uuid.New()
	ref := domain.UploadRef{VideoID: videoID, UploadID: "up-1", StorageKey: "k"}
	path := "/api/v1/uploads/" + videoID.String() + "/complete"

	t.Run("success", func(t *testing.T) {
		// Arrange
		svc := upload.NewMockUploadService()
		parts := []domain.UploadPart{{PartNumber: 1, ETag: `"a"`}, {PartNumber: 2, ETag: `"b"`}}
		svc.On("CompleteUpload", mock.Anything, owner, ref, parts).Return("https://minio/videos/k", nil).Once()
		w := httptest.NewRecorder()

		// Act
		newRouter(svc).ServeHTTP(w, newRequest(t, owner, path,
			`{"uploadId":"up-1","key":"k","parts":[{"PartNumber":1,"ETag":"\"a\""},{"PartNumber":2,"ETag":"\"b\""}]}`))

		// Assert
		assert.Equal(t, httpgo.StatusOK, w.Code)
		var resp uploadhandler.V1CompleteUploadResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, videoID, resp.VideoID)
		assert.Equal(t, "https://minio/videos/k", resp.Location)
	})

	t.Run("session mismatch is a conflict", func(t *testing.T) {
		// Arrange
		svc := upload.NewMockUploadService()
		svc.On("CompleteUpload", mock.Anything, owner, ref, mock.Anything).Return("", domain.ErrUploadNotInProgress).Once()
		w := httptest.NewRecorder()

		// Act
		newRouter(svc).ServeHTTP(w, newRequest(t, owner, path, `{"uploadId":"up-1","key":"k","parts":[{"PartNumber":1,"ETag":"x"}]}`))

		// Assert
		assert.Equal(t, httpgo.StatusConflict, w.Code)
	})

	t.Run("storage rejection", func(t *testing.T) {
		// Arrange
		svc := upload.NewMockUploadService()
		svc.On("CompleteUpload", mock.Anything, owner, ref, mock.Anything).Return("", domain.ErrUploadCompleteFailed).Once()
		w := httptest.NewRecorder()

		// Act
		newRouter(svc).ServeHTTP(w, newRequest(t, owner, path, `{"uploadId":"up-1","key":"k","parts":[{"PartNumber":1,"ETag":"x"}]}`))

		// Assert
		assert.Equal(t, httpgo.StatusBadGateway, w.Code)
	})
}

func TestAbortUploadV1(t *testing.T) {
	// Arrange
	owner := uuid.New()
	videoID := uuid.New()
	svc := upload.NewMockUploadService()
	svc.On("AbortUpload", mock.Anything, owner, domain.UploadRef{VideoID: videoID, UploadID: "up-1", StorageKey: "k"}).Return(nil).Once()
	w := httptest.NewRecorder()

	// Act
	newRouter(svc).ServeHTTP(w, newRequest(t, owner, "/api/v1/uploads/"+videoID.String()+"/abort", `{"uploadId":"up-1","key":"k"}`))

	// Assert
	assert.Equal(t, httpgo.StatusOK, w.Code)
	var resp uploadhandler.V1AbortUploadResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "aborted", resp.Status)
	svc.AssertExpectations(t)
}
