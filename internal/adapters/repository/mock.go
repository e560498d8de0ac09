package repository

import (
	"context"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockVideoRepository struct {
	mock.Mock
}

func NewMockVideoRepository() *MockVideoRepository {
	return &MockVideoRepository{}
}

func (m *MockVideoRepository) Create(ctx context.Context, video domain.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Video, error) {
	args := m.Called(ctx, id)
	video, _ := args.Get(0).(*domain.Video)
	return video, args.Error(1)
}

func (m *MockVideoRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Video, error) {
	args := m.Called(ctx, ownerID)
	videos, _ := args.Get(0).([]domain.Video)
	return videos, args.Error(1)
}

func (m *MockVideoRepository) FindByShareToken(ctx context.Context, token uuid.UUID) (*domain.Video, error) {
	args := m.Called(ctx, token)
	video, _ := args.Get(0).(*domain.Video)
	return video, args.Error(1)
}

func (m *MockVideoRepository) ExistsBySourceID(ctx context.Context, sourceID string) (bool, error) {
	args := m.Called(ctx, sourceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockVideoRepository) MarkCompleted(ctx context.Context, id uuid.UUID, uploadedAt time.Time) error {
	args := m.Called(ctx, id, uploadedAt)
	return args.Error(0)
}

func (m *MockVideoRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVideoRepository) UpdateDetails(ctx context.Context, id uuid.UUID, title, description string) error {
	args := m.Called(ctx, id, title, description)
	return args.Error(0)
}

func (m *MockVideoRepository) UpdateSharing(ctx context.Context, id uuid.UUID, isPublic bool, token *uuid.UUID, sharedAt *time.Time) error {
	args := m.Called(ctx, id, isPublic, token, sharedAt)
	return args.Error(0)
}

func (m *MockVideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVideoRepository) FindStaleUploads(ctx context.Context, before time.Time) ([]domain.Video, error) {
	args := m.Called(ctx, before)
	videos, _ := args.Get(0).([]domain.Video)
	return videos, args.Error(1)
}

type MockTagRepository struct {
	mock.Mock
}

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{}
}

func (m *MockTagRepository) CreateMany(ctx context.Context, tags []string) (int, error) {
	args := m.Called(ctx, tags)
	return args.Int(0), args.Error(1)
}

func (m *MockTagRepository) FindByName(ctx context.Context, name string) (*domain.Tag, error) {
	args := m.Called(ctx, name)
	tag, _ := args.Get(0).(*domain.Tag)
	return tag, args.Error(1)
}

func (m *MockTagRepository) FindByNames(ctx context.Context, names []string) (map[string]uuid.UUID, error) {
	args := m.Called(ctx, names)
	ids, _ := args.Get(0).(map[string]uuid.UUID)
	return ids, args.Error(1)
}

func (m *MockTagRepository) FindByVideoID(ctx context.Context, videoID uuid.UUID) ([]domain.Tag, error) {
	args := m.Called(ctx, videoID)
	tags, _ := args.Get(0).([]domain.Tag)
	return tags, args.Error(1)
}

func (m *MockTagRepository) List(ctx context.Context, limit int, marker *string) ([]domain.Tag, *string, error) {
	args := m.Called(ctx, limit, marker)
	tags, _ := args.Get(0).([]domain.Tag)
	next, _ := args.Get(1).(*string)
	return tags, next, args.Error(2)
}

type MockVideoTagRepository struct {
	mock.Mock
}

func (m *MockVideoTagRepository) ReplaceForVideo(ctx context.Context, videoID uuid.UUID, tagIDs []uuid.UUID) error {
	args := m.Called(ctx, videoID, tagIDs)
	return args.Error(0)
}

func (m *MockVideoTagRepository) DeleteByVideoID(ctx context.Context, videoID uuid.UUID) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}

type MockUnitOfWork struct {
	mock.Mock
	videoRepo    *MockVideoRepository
	tagRepo      *MockTagRepository
	videoTagRepo *MockVideoTagRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		videoRepo:    &MockVideoRepository{},
		tagRepo:      &MockTagRepository{},
		videoTagRepo: &MockVideoTagRepository{},
	}
}

func (m *MockUnitOfWork) VideoRepo() port.VideoRepository {
	return m.videoRepo
}

func (m *MockUnitOfWork) TagRepo() port.TagRepository {
	return m.tagRepo
}

func (m *MockUnitOfWork) VideoTagRepo() port.VideoTagRepository {
	return m.videoTagRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetVideoRepoMock() *MockVideoRepository {
	return m.videoRepo
}

func (m *MockUnitOfWork) GetTagRepoMock() *MockTagRepository {
	return m.tagRepo
}

func (m *MockUnitOfWork) GetVideoTagRepoMock() *MockVideoTagRepository {
	return m.videoTagRepo
}
