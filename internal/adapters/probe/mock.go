package probe

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockProber struct {
	mock.Mock
}

func NewMockProber() *MockProber {
	return &MockProber{}
}

func (m *MockProber) Probe(ctx context.Context, path string) (*int, error) {
	args := m.Called(ctx, path)
	d, _ := args.Get(0).(*int)
	return d, args.Error(1)
}
