package relay

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func decodeReply(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ChatReply
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Reply
}

func TestHandler_HandleChat(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *MockRelayer)
		wantStatus int
		wantReply  string
	}{
		{
			name: "success",
			body: `{"message":"Explain recursion","botId":"deepseek"}`,
			setup: func(m *MockRelayer) {
				m.On("RelayChat", mock.Anything, ChatRequest{Message: "Explain recursion", BotID: "deepseek"}).
					Return("Recursion is...", nil)
			},
			wantStatus: http.StatusOK,
			wantReply:  "Recursion is...",
		},
		{
			name:       "malformed body",
			body:       `{"message":`,
			setup:      func(m *MockRelayer) {},
			wantStatus: http.StatusBadRequest,
			wantReply:  "Invalid request body.",
		},
		{
			name: "configuration error",
			body: `{"message":"hi","botId":"claude"}`,
			setup: func(m *MockRelayer) {
				m.On("RelayChat", mock.Anything, mock.Anything).
					Return("", newError(KindConfiguration, "Error: API Key for claude is missing in server environment.", nil))
			},
			wantStatus: http.StatusBadRequest,
			wantReply:  "Error: API Key for claude is missing in server environment.",
		},
		{
			name: "unclassified error",
			body: `{"message":"hi","botId":"gpt"}`,
			setup: func(m *MockRelayer) {
				m.On("RelayChat", mock.Anything, mock.Anything).Return("", errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantReply:  TransportErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockRelayer)
			tt.setup(m)
			h := NewHandler(m, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.HandleChat().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantReply, decodeReply(t, rec))
			m.AssertExpectations(t)
		})
	}
}

func TestHandler_HandleTargets(t *testing.T) {
	m := new(MockRelayer)
	m.On("Targets").Return([]TargetInfo{{ID: "gpt", Name: "GPT-4o", Enabled: true, Default: true}})
	h := NewHandler(m, nil)

	rec := httptest.NewRecorder()
	h.HandleTargets().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/targets", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp TargetsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Targets, 1)
	assert.Equal(t, "gpt", resp.Targets[0].ID)
}

func TestHandler_HandleHealth(t *testing.T) {
	h := NewHandler(new(MockRelayer), nil)

	rec := httptest.NewRecorder()
	h.HandleHealth().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, HealthText, rec.Body.String())
}
