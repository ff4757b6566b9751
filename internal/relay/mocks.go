package relay

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockUpstream implements the Upstream interface for testing
type MockUpstream struct {
	mock.Mock
}

func (m *MockUpstream) Complete(ctx context.Context, p ProviderConfig, messages []Message) (string, error) {
	args := m.Called(ctx, p, messages)
	return args.String(0), args.Error(1)
}

// MockRelayer implements the Relayer interface for testing
type MockRelayer struct {
	mock.Mock
}

func (m *MockRelayer) RelayChat(ctx context.Context, req ChatRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockRelayer) Targets() []TargetInfo {
	args := m.Called()
	if v := args.Get(0); v != nil {
		return v.([]TargetInfo)
	}
	return nil
}
