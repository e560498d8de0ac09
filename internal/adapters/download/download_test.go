package download

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// rangeServer serves content and honours "bytes=N-" requests
func rangeServer(t *testing.T, content []byte) (*httptest.Server, *[]string) {
	t.Helper()
	var ranges []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rng := r.Header.Get("Range")
		ranges = append(ranges, rng)
		if rng == "" {
			w.Header().Set("Content-Length", strconv.Itoa(len(content)))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(content)
			return
		}
		start, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(rng, "bytes="), "-"))
		require.NoError(t, err)
		if start >= len(content) {
			w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", len(content)))
			w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
			return
		}
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, len(content)-1, len(content)))
		w.Header().Set("Content-Length", strconv.Itoa(len(content)-start))
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write(content[start:])
	}))
	t.Cleanup(srv.Close)
	return srv, &ranges
}

func TestDownloadFresh(t *testing.T) {
	content := bytes.Repeat([]byte("v"), 4096)

	t.Run("writes the file and reports completion", func(t *testing.T) {
		// Arrange
		srv, _ := rangeServer(t, content)
		dest := filepath.Join(t.TempDir(), "nested", "video.mp4")
		var last domain.Progress

		// Act
		err := newTestEngine().Download(context.Background(), srv.URL, dest, false, func(p domain.Progress) {
			last = p
		})

		// Assert
		require.NoError(t, err)
		got, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, content, got)
		assert.Equal(t, int64(len(content)), last.Bytes)
		assert.InDelta(t, 100.0, last.Percent, 0.001)
	})

	t.Run("failure leaves nothing behind", func(t *testing.T) {
		// Arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()
		dir := t.TempDir()
		dest := filepath.Join(dir, "video.mp4")

		// Act
		err := newTestEngine().Download(context.Background(), srv.URL, dest, false, nil)

		// Assert
		assert.ErrorIs(t, err, domain.ErrDownloadFailed)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("truncated body removes the temporary file", func(t *testing.T) {
		// Arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Length", "1000")
			_, _ = w.Write([]byte("short"))
		}))
		defer srv.Close()
		dir := t.TempDir()

		// Act
		err := newTestEngine().Download(context.Background(), srv.URL, filepath.Join(dir, "video.mp4"), false, nil)

		// Assert
		assert.ErrorIs(t, err, domain.ErrDownloadFailed)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestDownloadResume(t *testing.T) {
	content := make([]byte, 10_000)
	for i := range content {
		content[i] = byte(i % 251)
	}

	t.Run("continues from the partial file", func(t *testing.T) {
		// Arrange
		srv, ranges := rangeServer(t, content)
		dest := filepath.Join(t.TempDir(), "video.mp4")
		require.NoError(t, os.WriteFile(dest+PartialSuffix, content[:3000], 0o644))
		var reports []domain.Progress

		// Act
		err := newTestEngine().Download(context.Background(), srv.URL, dest, true, func(p domain.Progress) {
			reports = append(reports, p)
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"bytes=3000-"}, *ranges)

		got, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, content, got)
		assert.NoFileExists(t, dest+PartialSuffix)

		require.NotEmpty(t, reports)
		assert.Greater(t, reports[0].Bytes, int64(3000))
		assert.Equal(t, int64(len(content)), reports[0].Total)
		last := reports[len(reports)-1]
		assert.Equal(t, int64(len(content)), last.Bytes)
		assert.InDelta(t, 100.0, last.Percent, 0.001)
	})

	t.Run("starts from zero without a partial file", func(t *testing.T) {
		// Arrange
		srv, ranges := rangeServer(t, content)
		dest := filepath.Join(t.TempDir(), "video.mp4")

		// Act
		err := newTestEngine().Download(context.Background(), srv.URL, dest, true, nil)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{""}, *ranges)
		info, err := os.Stat(dest)
		require.NoError(t, err)
		assert.Equal(t, int64(len(content)), info.Size())
	})

	t.Run("server ignoring the range restarts the file", func(t *testing.T) {
		// Arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(content)
		}))
		defer srv.Close()
		dest := filepath.Join(t.TempDir(), "video.mp4")
		require.NoError(t, os.WriteFile(dest+PartialSuffix, []byte("stale bytes"), 0o644))

		// Act
		err := newTestEngine().Download(context.Background(), srv.URL, dest, true, nil)

		// Assert
		require.NoError(t, err)
		got, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("already complete partial is finalized", func(t *testing.T) {
		// Arrange
		srv, _ := rangeServer(t, content)
		dest := filepath.Join(t.TempDir(), "video.mp4")
		require.NoError(t, os.WriteFile(dest+PartialSuffix, content, 0o644))

		// Act
		err := newTestEngine().Download(context.Background(), srv.URL, dest, true, nil)

		// Assert
		require.NoError(t, err)
		assert.FileExists(t, dest)
		assert.NoFileExists(t, dest+PartialSuffix)
	})

	t.Run("failure keeps the partial file", func(t *testing.T) {
		// Arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		dest := filepath.Join(t.TempDir(), "video.mp4")
		require.NoError(t, os.WriteFile(dest+PartialSuffix, content[:500], 0o644))

		// Act
		err := newTestEngine().Download(context.Background(), srv.URL, dest, true, nil)

		// Assert
		assert.ErrorIs(t, err, domain.ErrDownloadFailed)
		info, statErr := os.Stat(dest + PartialSuffix)
		require.NoError(t, statErr)
		assert.Equal(t, int64(500), info.Size())
		assert.NoFileExists(t, dest)
	})
}

func TestRangeTotal(t *testing.T) {
	assert.Equal(t, int64(100), rangeTotal("bytes 10-99/100"))
	assert.Equal(t, int64(42), rangeTotal("bytes */42"))
	assert.Equal(t, int64(-1), rangeTotal("bytes 0-9/*"))
	assert.Equal(t, int64(-1), rangeTotal(""))
}
