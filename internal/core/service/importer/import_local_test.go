package importer_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDiscoverLocal(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves sidecar, then filename pattern, then stem", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Intro_1234567.mp4"), "a")
		writeFile(t, filepath.Join(dir, "My_Talk_123456789.mp4"), "b")
		writeFile(t, filepath.Join(dir, "holiday.mp4"), "c")
		writeFile(t, filepath.Join(dir, "notes.txt"), "d")
		writeFile(t, filepath.Join(f.cfg.MetadataDir, "Intro_1234567.json"),
			`{"title": "Real Title", "vimeo_id": 7654321, "description": "from sidecar", "duration": 90, "quality": "hd"}`)

		// Act
		sources, err := f.svc.DiscoverLocal(ctx, domain.LocalImportOptions{Dir: dir, WithMetadata: true, MetadataDir: f.cfg.MetadataDir})

		// Assert
		require.NoError(t, err)
		require.Len(t, sources, 3)

		sidecar := sources[0]
		assert.Equal(t, "Real Title", sidecar.Title)
		assert.Equal(t, "7654321", sidecar.SourceID)
		assert.Equal(t, "from sidecar", sidecar.Description)
		require.NotNil(t, sidecar.Duration)
		assert.Equal(t, 90, *sidecar.Duration)
		assert.Equal(t, "hd", sidecar.Quality())
		assert.Equal(t, filepath.Join(f.cfg.MetadataDir, "Intro_1234567.json"), sidecar.SidecarPath)

		pattern := sources[1]
		assert.Equal(t, "My Talk", pattern.Title)
		assert.Equal(t, "123456789", pattern.SourceID)
		assert.Empty(t, pattern.SidecarPath)

		stem := sources[2]
		assert.Equal(t, "holiday", stem.Title)
		assert.Empty(t, stem.SourceID)
		assert.Equal(t, filepath.Join(dir, "holiday.mp4"), stem.LocalPath)
	})

	t.Run("sidecar without title is ignored", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Clip_7777777.mp4"), "a")
		writeFile(t, filepath.Join(dir, "Clip_7777777.json"), `{"vimeo_id": "1"}`)

		// Act
		sources, err := f.svc.DiscoverLocal(ctx, domain.LocalImportOptions{Dir: dir, WithMetadata: true})

		// Assert
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, "Clip", sources[0].Title)
		assert.Equal(t, "7777777", sources[0].SourceID)
	})

	t.Run("sidecars are ignored unless metadata is requested", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "Intro_1234567.mp4"), "a")
		writeFile(t, filepath.Join(dir, "Intro_1234567.json"), `{"title": "Real Title", "vimeo_id": "7654321"}`)

		// Act
		sources, err := f.svc.DiscoverLocal(ctx, domain.LocalImportOptions{Dir: dir, MetadataDir: dir})

		// Assert
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, "Intro", sources[0].Title)
		assert.Equal(t, "1234567", sources[0].SourceID)
		assert.Empty(t, sources[0].SidecarPath)
	})

	t.Run("custom pattern", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.mov"), "a")
		writeFile(t, filepath.Join(dir, "b.mp4"), "b")

		// Act
		sources, err := f.svc.DiscoverLocal(ctx, domain.LocalImportOptions{Dir: dir, Pattern: "*.mov"})

		// Assert
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, "a", sources[0].Title)
	})
}

func TestImportLocal(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("uploads, persists and moves to processed", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		dir := t.TempDir()
		videoPath := filepath.Join(dir, "My Talk_123456789.mp4")
		writeFile(t, videoPath, "local bytes")
		sidecar := filepath.Join(dir, "My Talk_123456789.json")
		writeFile(t, sidecar, `{"title": "My Talk", "vimeo_id": "123456789", "quality": "hd"}`)
		wantKey := "videos/" + owner.String() + "/My_Talk_123456789.mp4"

		sources, err := f.svc.DiscoverLocal(ctx, domain.LocalImportOptions{Dir: dir, WithMetadata: true})
		require.NoError(t, err)

		f.videos.On("ExistsBySourceID", mock.Anything, "123456789").Return(false, nil).Once()
		f.prober.On("Probe", mock.Anything, videoPath).Return(intPtr(42), nil).Once()
		f.storage.On("PutObject", mock.Anything, wantKey, mock.Anything, int64(len("local bytes")), "video/mp4").Return(nil).Once()
		f.videos.On("Create", mock.Anything, mock.MatchedBy(func(v domain.Video) bool {
			return v.Title == "My Talk" &&
				v.OriginalFilename == "My Talk_123456789.mp4" &&
				v.StorageKey == wantKey &&
				v.DurationSeconds != nil && *v.DurationSeconds == 42 &&
				v.Status == domain.VideoStatusCompleted &&
				v.Metadata.Source == domain.SourceLocal &&
				v.Metadata.SourceID == "123456789" &&
				v.Metadata.OriginalQuality == "hd" &&
				v.Metadata.Extra["original_path"] == videoPath
		})).Return(nil).Once()

		// Act
		report, err := f.svc.ImportLocal(ctx, owner, sources, domain.LocalImportOptions{MoveProcessed: true})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, report.Imported)
		assert.NoFileExists(t, videoPath)
		assert.NoFileExists(t, sidecar)
		assert.FileExists(t, filepath.Join(f.cfg.ProcessedDir, "My Talk_123456789.mp4"))
		assert.FileExists(t, filepath.Join(f.cfg.ProcessedDir, "My Talk_123456789.json"))
		f.storage.AssertExpectations(t)
		f.videos.AssertExpectations(t)
		f.recorder.AssertCalled(t, "RecordOutcome", domain.SourceLocal, domain.OutcomeImported)
	})

	t.Run("known duration skips probing", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		videoPath := filepath.Join(t.TempDir(), "clip.mp4")
		writeFile(t, videoPath, "x")
		src := domain.ImportSource{System: domain.SourceLocal, Title: "clip", LocalPath: videoPath, Duration: intPtr(7)}

		f.storage.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		f.videos.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		// Act
		report, err := f.svc.ImportLocal(ctx, owner, []domain.ImportSource{src}, domain.LocalImportOptions{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, report.Imported)
		assert.FileExists(t, videoPath)
		f.prober.AssertNotCalled(t, "Probe", mock.Anything, mock.Anything)
		f.videos.AssertNotCalled(t, "ExistsBySourceID", mock.Anything, mock.Anything)
	})

	t.Run("already imported file is still moved", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		processed := filepath.Join(t.TempDir(), "done")
		videoPath := filepath.Join(t.TempDir(), "Old_1111111.mp4")
		writeFile(t, videoPath, "x")
		src := domain.ImportSource{System: domain.SourceLocal, Title: "Old", SourceID: "1111111", LocalPath: videoPath}
		f.videos.On("ExistsBySourceID", mock.Anything, "1111111").Return(true, nil).Once()

		// Act
		report, err := f.svc.ImportLocal(ctx, owner, []domain.ImportSource{src},
			domain.LocalImportOptions{MoveProcessed: true, ProcessedDir: processed})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, report.Skipped)
		assert.FileExists(t, filepath.Join(processed, "Old_1111111.mp4"))
		f.storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upload failure leaves the file in place", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		videoPath := filepath.Join(t.TempDir(), "broken.mp4")
		writeFile(t, videoPath, "x")
		src := domain.ImportSource{System: domain.SourceLocal, Title: "broken", LocalPath: videoPath}
		f.prober.On("Probe", mock.Anything, videoPath).Return(nil, nil).Once()
		f.storage.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("bucket unavailable")).Once()

		// Act
		report, err := f.svc.ImportLocal(ctx, owner, []domain.ImportSource{src}, domain.LocalImportOptions{MoveProcessed: true})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, report.Failed)
		assert.ErrorIs(t, report.Results[0].Err, domain.ErrStorage)
		assert.FileExists(t, videoPath)
		f.videos.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing file fails without upload", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		src := domain.ImportSource{System: domain.SourceLocal, Title: "gone", LocalPath: filepath.Join(t.TempDir(), "gone.mp4"), Duration: intPtr(1)}

		// Act
		report, err := f.svc.ImportLocal(ctx, owner, []domain.ImportSource{src}, domain.LocalImportOptions{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, []string{"gone.mp4"}, report.FailedNames())
		f.storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
