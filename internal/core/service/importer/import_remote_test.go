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

func TestDiscoverRemote(t *testing.T) {
	ctx := context.Background()

	t.Run("walks every page", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.source.On("ListVideos", ctx, 1).Return([]domain.ImportSource{remoteSource("1000001", "A")}, true, nil).Once()
		f.source.On("ListVideos", ctx, 2).Return([]domain.ImportSource{remoteSource("1000002", "B")}, false, nil).Once()

		// Act
		sources, err := f.svc.DiscoverRemote(ctx, 0)

		// Assert
		require.NoError(t, err)
		require.Len(t, sources, 2)
		assert.Equal(t, "1000002", sources[1].SourceID)
		f.source.AssertExpectations(t)
	})

	t.Run("limit stops paging", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		page := []domain.ImportSource{remoteSource("1", "A"), remoteSource("2", "B"), remoteSource("3", "C")}
		f.source.On("ListVideos", ctx, 1).Return(page, true, nil).Once()

		// Act
		sources, err := f.svc.DiscoverRemote(ctx, 2)

		// Assert
		require.NoError(t, err)
		assert.Len(t, sources, 2)
		f.source.AssertNotCalled(t, "ListVideos", ctx, 2)
	})

	t.Run("entry repeated across pages is listed once", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.source.On("ListVideos", ctx, 1).Return([]domain.ImportSource{remoteSource("1000001", "A"), remoteSource("1000002", "B")}, true, nil).Once()
		f.source.On("ListVideos", ctx, 2).Return([]domain.ImportSource{remoteSource("1000002", "B"), remoteSource("1000003", "C")}, false, nil).Once()

		// Act
		sources, err := f.svc.DiscoverRemote(ctx, 0)

		// Assert
		require.NoError(t, err)
		require.Len(t, sources, 3)
		assert.Equal(t, []string{"1000001", "1000002", "1000003"},
			[]string{sources[0].SourceID, sources[1].SourceID, sources[2].SourceID})
	})

	t.Run("remote failure", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.source.On("ListVideos", ctx, 1).Return(nil, false, domain.ErrRemoteSource).Once()

		// Act
		_, err := f.svc.DiscoverRemote(ctx, 0)

		// Assert
		assert.ErrorIs(t, err, domain.ErrRemoteSource)
	})
}

func TestPlanRemote(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)
	sources := []domain.ImportSource{
		remoteSource("1111111", "Old", domain.DownloadLink{URL: "u1", Quality: "hd", Size: 900}),
		remoteSource("2222222", "New",
			domain.DownloadLink{URL: "u2", Quality: "sd", Size: 100},
			domain.DownloadLink{URL: "u3", Quality: "4k", Size: 5000}),
		remoteSource("3333333", "Linkless"),
	}
	f.videos.On("ExistsBySourceID", ctx, "1111111").Return(true, nil)
	f.videos.On("ExistsBySourceID", ctx, "2222222").Return(false, nil)
	f.videos.On("ExistsBySourceID", ctx, "3333333").Return(false, nil)

	// Act
	plan, err := f.svc.PlanRemote(ctx, sources)

	// Assert
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.True(t, plan[0].AlreadyImported)
	assert.False(t, plan[1].AlreadyImported)
	assert.Equal(t, int64(5000), plan[1].Size)
	assert.Equal(t, "4k", plan[1].Quality)
	assert.Equal(t, "source", plan[2].Quality)
	assert.Zero(t, plan[2].Size)
}

func TestImportRemote(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	content := []byte("remote video bytes")

	t.Run("downloads, uploads and persists", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		src := remoteSource("123456789", "Quarterly Review: Q3",
			domain.DownloadLink{URL: "https://cdn/sd", Quality: "sd", Size: 10},
			domain.DownloadLink{URL: "https://cdn/hd", Quality: "hd", Size: 20})
		src.Duration = intPtr(125)
		wantKey := "videos/" + owner.String() + "/Quarterly_Review_Q3_123456789.mp4"
		localPath := filepath.Join(f.cfg.TempDir, "Quarterly_Review_Q3_123456789.mp4")

		f.videos.On("ExistsBySourceID", mock.Anything, "123456789").Return(false, nil).Once()
		f.serveDownload("https://cdn/hd", content).Once()
		f.storage.On("PutObject", mock.Anything, wantKey, mock.Anything, int64(len(content)), "video/mp4").Return(nil).Once()
		f.videos.On("Create", mock.Anything, mock.MatchedBy(func(v domain.Video) bool {
			return v.OwnerID == owner &&
				v.Title == "Quarterly Review: Q3" &&
				v.Description == "about Quarterly Review: Q3" &&
				v.StorageKey == wantKey &&
				v.Bucket == "videos" &&
				v.SizeBytes == int64(len(content)) &&
				v.Status == domain.VideoStatusCompleted &&
				v.DurationSeconds != nil && *v.DurationSeconds == 125 &&
				v.UploadedAt != nil &&
				v.Metadata.Source == domain.SourceVimeo &&
				v.Metadata.SourceID == "123456789" &&
				v.Metadata.OriginalQuality == "hd" &&
				v.Metadata.SourceCreatedAt == "2023-05-01T10:00:00+00:00" &&
				v.Metadata.ImportedAt != nil
		})).Return(nil).Once()

		// Act
		report, err := f.svc.ImportRemote(ctx, owner, []domain.ImportSource{src}, true)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, report.Imported)
		require.Len(t, report.Results, 1)
		assert.NotNil(t, report.Results[0].VideoID)
		assert.NoFileExists(t, localPath)
		f.downloader.AssertCalled(t, "Download", mock.Anything, "https://cdn/hd", localPath, true, mock.Anything)
		f.storage.AssertExpectations(t)
		f.videos.AssertExpectations(t)
		f.recorder.AssertCalled(t, "RecordOutcome", domain.SourceVimeo, domain.OutcomeImported)
	})

	t.Run("already imported is skipped without download", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		src := remoteSource("123456789", "Dup", domain.DownloadLink{URL: "https://cdn/x", Size: 1})
		f.videos.On("ExistsBySourceID", mock.Anything, "123456789").Return(true, nil).Once()

		// Act
		report, err := f.svc.ImportRemote(ctx, owner, []domain.ImportSource{src}, false)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, report.Skipped)
		f.downloader.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("importing twice persists once", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		src := remoteSource("5555555", "Once", domain.DownloadLink{URL: "https://cdn/once", Size: 1})
		f.videos.On("ExistsBySourceID", mock.Anything, "5555555").Return(false, nil).Once()
		f.videos.On("ExistsBySourceID", mock.Anything, "5555555").Return(true, nil).Once()
		f.serveDownload("https://cdn/once", content).Once()
		f.storage.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		f.videos.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		// Act
		first, err := f.svc.ImportRemote(ctx, owner, []domain.ImportSource{src}, false)
		require.NoError(t, err)
		second, err := f.svc.ImportRemote(ctx, owner, []domain.ImportSource{src}, false)
		require.NoError(t, err)

		// Assert
		assert.Equal(t, 1, first.Imported)
		assert.Equal(t, 1, second.Skipped)
		f.videos.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("same source twice in one batch downloads once", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		src := remoteSource("5656565", "Twice", domain.DownloadLink{URL: "https://cdn/twice", Size: 1})
		f.videos.On("ExistsBySourceID", mock.Anything, "5656565").Return(false, nil).Once()
		f.serveDownload("https://cdn/twice", content).Once()
		f.storage.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		f.videos.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		// Act
		report, err := f.svc.ImportRemote(ctx, owner, []domain.ImportSource{src, src}, true)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, report.Imported)
		assert.Equal(t, 1, report.Skipped)
		f.downloader.AssertNumberOfCalls(t, "Download", 1)
		f.videos.AssertExpectations(t)
	})

	t.Run("lost race on persist counts as skipped", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		src := remoteSource("6666666", "Race", domain.DownloadLink{URL: "https://cdn/race", Size: 1})
		f.videos.On("ExistsBySourceID", mock.Anything, "6666666").Return(false, nil).Once()
		f.serveDownload("https://cdn/race", content).Once()
		f.storage.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		f.videos.On("Create", mock.Anything, mock.Anything).Return(domain.ErrAlreadyExists).Once()

		// Act
		report, err := f.svc.ImportRemote(ctx, owner, []domain.ImportSource{src}, false)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, report.Skipped)
		assert.Zero(t, report.Failed)
	})

	t.Run("per item failures do not stop the batch", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		linkless := remoteSource("7000001", "No Link")
		broken := remoteSource("7000002", "Broken", domain.DownloadLink{URL: "https://cdn/broken", Size: 1})
		rejected := remoteSource("7000003", "Rejected", domain.DownloadLink{URL: "https://cdn/rejected", Size: 1})
		good := remoteSource("7000004", "Good", domain.DownloadLink{URL: "https://cdn/good", Size: 1})

		f.videos.On("ExistsBySourceID", mock.Anything, mock.Anything).Return(false, nil)
		f.downloader.On("Download", mock.Anything, "https://cdn/broken", mock.Anything, mock.Anything, mock.Anything).
			Return(domain.ErrDownloadFailed).Once()
		f.serveDownload("https://cdn/rejected", content).Once()
		f.serveDownload("https://cdn/good", content).Once()
		f.storage.On("PutObject", mock.Anything, "videos/"+owner.String()+"/Rejected_7000003.mp4", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("bucket unavailable")).Once()
		f.storage.On("PutObject", mock.Anything, "videos/"+owner.String()+"/Good_7000004.mp4", mock.Anything, mock.Anything, mock.Anything).
			Return(nil).Once()
		f.videos.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		// Act
		report, err := f.svc.ImportRemote(ctx, owner, []domain.ImportSource{linkless, broken, rejected, good}, false)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, report.Imported)
		assert.Equal(t, 3, report.Failed)
		assert.Equal(t, []string{"No Link", "Broken", "Rejected"}, report.FailedNames())

		byName := map[string]error{}
		for _, r := range report.Results {
			byName[r.Name] = r.Err
		}
		assert.ErrorIs(t, byName["No Link"], domain.ErrNoDownloadLink)
		assert.NotErrorIs(t, byName["No Link"], domain.ErrRetryable)
		assert.ErrorIs(t, byName["Broken"], domain.ErrRetryable)
		assert.ErrorIs(t, byName["Rejected"], domain.ErrStorage)
		assert.ErrorIs(t, byName["Rejected"], domain.ErrRetryable)
		assert.NoFileExists(t, filepath.Join(f.cfg.TempDir, "Rejected_7000003.mp4"))
		f.recorder.AssertCalled(t, "RecordOutcome", domain.SourceVimeo, domain.OutcomeFailed)
	})

	t.Run("duplicate check failure is retryable", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		src := remoteSource("8888888", "Db Down", domain.DownloadLink{URL: "https://cdn/x", Size: 1})
		f.videos.On("ExistsBySourceID", mock.Anything, "8888888").Return(false, errors.New("connection refused")).Once()

		// Act
		report, err := f.svc.ImportRemote(ctx, owner, []domain.ImportSource{src}, false)

		// Assert
		require.NoError(t, err)
		require.Len(t, report.Results, 1)
		assert.ErrorIs(t, report.Results[0].Err, domain.ErrRetryable)
	})

	t.Run("cancelled context stops between chunks", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		// Act
		report, err := f.svc.ImportRemote(cancelled, owner, []domain.ImportSource{remoteSource("1", "A")}, false)

		// Assert
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, report.Results)
		f.videos.AssertNotCalled(t, "ExistsBySourceID", mock.Anything, mock.Anything)
	})
}
