package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/protonix-ai/protonix/internal/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRelayServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/chat":
			var req relay.ChatRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			switch req.BotID {
			case "claude":
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(relay.ChatReply{Reply: "Error: API Key for claude is missing in server environment."})
			case "broken":
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("<html>"))
			default:
				_ = json.NewEncoder(w).Encode(relay.ChatReply{Reply: req.BotID + " says hi"})
			}
		case "/api/targets":
			_ = json.NewEncoder(w).Encode(relay.TargetsResponse{Targets: []relay.TargetInfo{
				{ID: "gpt", Name: "ChatGPT", Enabled: true, Default: true},
			}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPRelay_Chat(t *testing.T) {
	srv := newRelayServer(t)
	r := NewHTTPRelay(srv.URL+"/", srv.Client())

	reply, err := r.Chat(context.Background(), "gpt", "hi")
	require.NoError(t, err)
	assert.Equal(t, "gpt says hi", reply)

	_, err = r.Chat(context.Background(), "claude", "hi")
	var rerr *ReplyError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, http.StatusBadRequest, rerr.Status)
	assert.Equal(t, "Error: API Key for claude is missing in server environment.", rerr.Reply)

	_, err = r.Chat(context.Background(), "broken", "hi")
	require.Error(t, err)
	assert.False(t, errors.As(err, &rerr))
}

func TestHTTPRelay_Targets(t *testing.T) {
	srv := newRelayServer(t)
	r := NewHTTPRelay(srv.URL, nil)

	targets, err := r.Targets(context.Background())
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.True(t, targets[0].Default)
}

func TestHTTPRelay_Unreachable(t *testing.T) {
	srv := newRelayServer(t)
	url := srv.URL
	srv.Close()

	_, err := NewHTTPRelay(url, nil).Chat(context.Background(), "gpt", "hi")
	require.Error(t, err)

	d := NewDispatcher(NewHTTPRelay(url, nil), threeTargets(t), NewSession(false))
	b, err := d.HandleSend(context.Background(), "hi")
	require.NoError(t, err)
	b.Wait()
	assert.Equal(t, ConnectionErrorText, d.Session().Column("gpt")[0].Text)
}

func TestLocalRelay(t *testing.T) {
	m := new(relay.MockRelayer)
	m.On("RelayChat", mock.Anything, relay.ChatRequest{Message: "hi", BotID: "gpt"}).Return("hello", nil)
	m.On("RelayChat", mock.Anything, relay.ChatRequest{Message: "hi", BotID: "claude"}).Return("", errors.New("boom"))
	m.On("Targets").Return([]relay.TargetInfo{{ID: "gpt"}})

	l := NewLocalRelay(m)

	reply, err := l.Chat(context.Background(), "gpt", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)

	_, err = l.Chat(context.Background(), "claude", "hi")
	var rerr *ReplyError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, http.StatusInternalServerError, rerr.Status)
	assert.Equal(t, relay.TransportErrorMessage, rerr.Reply)

	targets, err := l.Targets(context.Background())
	require.NoError(t, err)
	assert.Len(t, targets, 1)
}
