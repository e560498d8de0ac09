package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"
)

// PartialSuffix is appended to the destination while a resumable download is in flight
const PartialSuffix = ".download"

// Engine streams remote files to disk, optionally resuming an earlier partial file
type Engine struct {
	client *http.Client
	logger *slog.Logger
}

// NewEngine returns an Engine. A nil client means http.DefaultClient.
func NewEngine(client *http.Client, logger *slog.Logger) *Engine {
	if client == nil {
		client = http.DefaultClient
	}
	return &Engine{client: client, logger: logger}
}

// Download fetches sourceURL into destination.
// Without resume a failed transfer leaves nothing behind. With resume the
// partial file stays next to destination so a later call can continue it.
func (e *Engine) Download(ctx context.Context, sourceURL string, destination string, resume bool, onProgress port.ProgressFunc) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	if resume {
		return e.downloadResumable(ctx, sourceURL, destination, onProgress)
	}
	return e.downloadFresh(ctx, sourceURL, destination, onProgress)
}

func (e *Engine) downloadFresh(ctx context.Context, sourceURL string, destination string, onProgress port.ProgressFunc) error {
	tmp, err := os.CreateTemp(filepath.Dir(destination), "."+filepath.Base(destination)+"-*")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		e.logger.Error("download failed", "url", redact(sourceURL), "error", err)
		return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}

	resp, err := e.get(ctx, sourceURL, 0)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	progress := newProgressWriter(tmp, 0, resp.ContentLength, onProgress)
	if _, err := io.Copy(progress, resp.Body); err != nil {
		return fail(err)
	}
	progress.finish()

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	if err := os.Rename(tmpPath, destination); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	return nil
}

func (e *Engine) downloadResumable(ctx context.Context, sourceURL string, destination string, onProgress port.ProgressFunc) error {
	partialPath := destination + PartialSuffix

	var existing int64
	if info, err := os.Stat(partialPath); err == nil {
		existing = info.Size()
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}

	resp, err := e.get(ctx, sourceURL, existing)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusPartialContent:
	case http.StatusOK:
		// range ignored by the server, start over
		existing = 0
	case http.StatusRequestedRangeNotSatisfiable:
		if existing > 0 && rangeTotal(resp.Header.Get("Content-Range")) == existing {
			return finalize(partialPath, destination)
		}
		return fmt.Errorf("%w: range %d not satisfiable", domain.ErrDownloadFailed, existing)
	default:
		return fmt.Errorf("%w: unexpected status %d", domain.ErrDownloadFailed, resp.StatusCode)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if existing == 0 {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(partialPath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}

	total := int64(-1)
	if resp.ContentLength >= 0 {
		total = existing + resp.ContentLength
	}
	if t := rangeTotal(resp.Header.Get("Content-Range")); t > 0 {
		total = t
	}

	progress := newProgressWriter(f, existing, total, onProgress)
	if _, err := io.Copy(progress, resp.Body); err != nil {
		_ = f.Close()
		e.logger.Warn("download interrupted, partial file kept", "path", partialPath, "bytes", progress.done, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	progress.finish()

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	return finalize(partialPath, destination)
}

func (e *Engine) get(ctx context.Context, sourceURL string, offset int64) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, err
	}
	if offset > 0 {
		req.Header.Set("Range", "bytes="+strconv.FormatInt(offset, 10)+"-")
	}
	return e.client.Do(req)
}

func finalize(partialPath, destination string) error {
	if err := os.Rename(partialPath, destination); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err)
	}
	return nil
}

// rangeTotal reads the complete length from "bytes a-b/total" or "bytes */total"
func rangeTotal(contentRange string) int64 {
	idx := strings.LastIndex(contentRange, "/")
	if idx < 0 {
		return -1
	}
	total, err := strconv.ParseInt(strings.TrimSpace(contentRange[idx+1:]), 10, 64)
	if err != nil {
		return -1
	}
	return total
}

// redact drops the query string, download links carry signed tokens
func redact(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}
