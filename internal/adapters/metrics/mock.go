package metrics

import (
	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockRecorder struct {
	mock.Mock
}

func NewMockRecorder() *MockRecorder {
	return &MockRecorder{}
}

func (m *MockRecorder) RecordOutcome(system domain.SourceSystem, outcome domain.ImportOutcome) {
	m.Called(system, outcome)
}

func (m *MockRecorder) RecordTaskFailure(kind domain.TaskKind) {
	m.Called(kind)
}
