package importer_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tjanuki/storage-manager/internal/adapters/download"
	"github.com/tjanuki/storage-manager/internal/adapters/eventbroker"
	"github.com/tjanuki/storage-manager/internal/adapters/metrics"
	"github.com/tjanuki/storage-manager/internal/adapters/probe"
	"github.com/tjanuki/storage-manager/internal/adapters/repository"
	"github.com/tjanuki/storage-manager/internal/adapters/storage"
	"github.com/tjanuki/storage-manager/internal/adapters/vimeo"
	"github.com/tjanuki/storage-manager/internal/config"
	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"
	"github.com/tjanuki/storage-manager/internal/core/service/importer"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc        port.ImportService
	uow        *repository.MockUnitOfWork
	videos     *repository.MockVideoRepository
	storage    *storage.MockStorage
	source     *vimeo.MockVideoSource
	downloader *download.MockDownloader
	prober     *probe.MockProber
	publisher  *eventbroker.MockPublisher
	recorder   *metrics.MockRecorder
	cfg        config.ImportConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		uow:        repository.NewMockUnitOfWork(),
		storage:    storage.NewMockStorage(),
		source:     vimeo.NewMockVideoSource(),
		downloader: download.NewMockDownloader(),
		prober:     probe.NewMockProber(),
		publisher:  eventbroker.NewMockPublisher(),
		recorder:   metrics.NewMockRecorder(),
		cfg: config.ImportConfig{
			TempDir:       filepath.Join(root, "temp"),
			ProcessedDir:  filepath.Join(root, "processed"),
			MetadataDir:   filepath.Join(root, "metadata"),
			Concurrency:   2,
			ChunkSize:     2,
			TaskTimeout:   time.Hour,
			MaxTries:      3,
			MaxExceptions: 2,
		},
	}
	require.NoError(t, os.MkdirAll(f.cfg.TempDir, 0o755))
	f.videos = f.uow.GetVideoRepoMock()
	f.recorder.On("RecordOutcome", mock.Anything, mock.Anything).Maybe()
	f.recorder.On("RecordTaskFailure", mock.Anything).Maybe()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = importer.NewImportService(f.uow, f.storage, f.source, f.downloader, f.prober, f.publisher, f.recorder, f.cfg, logger)
	return f
}

// serveDownload makes the downloader write content at the requested destination
func (f *fixture) serveDownload(url string, content []byte) *mock.Call {
	return f.downloader.On("Download", mock.Anything, url, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_ = os.WriteFile(args.String(2), content, 0o644)
		}).
		Return(nil)
}

func remoteSource(id, title string, links ...domain.DownloadLink) domain.ImportSource {
	return domain.ImportSource{
		System:      domain.SourceVimeo,
		SourceID:    id,
		Title:       title,
		Description: "about " + title,
		CreatedTime: "2023-05-01T10:00:00+00:00",
		Links:       links,
	}
}

func writeFile(t *testing.T, p string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func intPtr(v int) *int { return &v }
