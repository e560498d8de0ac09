package importer

import (
	"context"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockImportService struct {
	mock.Mock
}

func NewMockImportService() *MockImportService {
	return &MockImportService{}
}

func (m *MockImportService) DiscoverRemote(ctx context.Context, limit int) ([]domain.ImportSource, error) {
	args := m.Called(ctx, limit)
	v, _ := args.Get(0).([]domain.ImportSource)
	return v, args.Error(1)
}

func (m *MockImportService) PlanRemote(ctx context.Context, sources []domain.ImportSource) ([]domain.PlannedImport, error) {
	args := m.Called(ctx, sources)
	v, _ := args.Get(0).([]domain.PlannedImport)
	return v, args.Error(1)
}

func (m *MockImportService) ImportRemote(ctx context.Context, ownerID uuid.UUID, sources []domain.ImportSource, resume bool) (*domain.ImportReport, error) {
	args := m.Called(ctx, ownerID, sources, resume)
	v, _ := args.Get(0).(*domain.ImportReport)
	return v, args.Error(1)
}

func (m *MockImportService) DispatchRemote(ctx context.Context, ownerID uuid.UUID, sources []domain.ImportSource, resume bool, delay time.Duration, priority int) (int, int, error) {
	args := m.Called(ctx, ownerID, sources, resume, delay, priority)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockImportService) DiscoverLocal(ctx context.Context, opts domain.LocalImportOptions) ([]domain.ImportSource, error) {
	args := m.Called(ctx, opts)
	v, _ := args.Get(0).([]domain.ImportSource)
	return v, args.Error(1)
}

func (m *MockImportService) PlanLocal(ctx context.Context, sources []domain.ImportSource) ([]domain.PlannedImport, error) {
	args := m.Called(ctx, sources)
	v, _ := args.Get(0).([]domain.PlannedImport)
	return v, args.Error(1)
}

func (m *MockImportService) ImportLocal(ctx context.Context, ownerID uuid.UUID, sources []domain.ImportSource, opts domain.LocalImportOptions) (*domain.ImportReport, error) {
	args := m.Called(ctx, ownerID, sources, opts)
	v, _ := args.Get(0).(*domain.ImportReport)
	return v, args.Error(1)
}

func (m *MockImportService) DispatchLocal(ctx context.Context, ownerID uuid.UUID, sources []domain.ImportSource, opts domain.LocalImportOptions, delay time.Duration, priority int) (int, int, error) {
	args := m.Called(ctx, ownerID, sources, opts, delay, priority)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockImportService) RunTask(ctx context.Context, task domain.ImportTask) domain.ImportResult {
	args := m.Called(ctx, task)
	v, _ := args.Get(0).(domain.ImportResult)
	return v
}

func (m *MockImportService) GenerateMetadata(ctx context.Context, sources []domain.ImportSource, dir string) (int, int, error) {
	args := m.Called(ctx, sources, dir)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockImportService) ConvertFilenames(ctx context.Context, opts domain.ConvertOptions) (*domain.ConvertReport, error) {
	args := m.Called(ctx, opts)
	v, _ := args.Get(0).(*domain.ConvertReport)
	return v, args.Error(1)
}
