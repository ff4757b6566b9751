package dispatch

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRelay implements the Relay interface for testing
type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) Chat(ctx context.Context, targetID, message string) (string, error) {
	args := m.Called(ctx, targetID, message)
	return args.String(0), args.Error(1)
}
