package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/protonix-ai/protonix/internal/relay"
)

// Relay sends one message to one target and returns the reply text
type Relay interface {
	Chat(ctx context.Context, targetID, message string) (string, error)
}

// ReplyError is a relay failure whose reply text is meant for the user
type ReplyError struct {
	Status int
	Reply  string
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("relay returned status %d: %s", e.Status, e.Reply)
}

// HTTPRelay talks to a running relay server
type HTTPRelay struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRelay creates a client for the relay at baseURL
func NewHTTPRelay(baseURL string, client *http.Client) *HTTPRelay {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRelay{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Chat posts to /api/chat. Non-200 replies become *ReplyError carrying the relay's text.
func (r *HTTPRelay) Chat(ctx context.Context, targetID, message string) (string, error) {
	payload, err := json.Marshal(relay.ChatRequest{Message: message, BotID: targetID})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach relay: %w", err)
	}
	defer resp.Body.Close()

	var reply relay.ChatReply
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&reply); err != nil {
		return "", fmt.Errorf("failed to decode relay reply (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ReplyError{Status: resp.StatusCode, Reply: reply.Reply}
	}

	return reply.Reply, nil
}

// Targets fetches the relay's public catalog
func (r *HTTPRelay) Targets(ctx context.Context) ([]relay.TargetInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/api/targets", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build targets request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relay returned status %d for targets", resp.StatusCode)
	}

	var out relay.TargetsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode targets: %w", err)
	}
	return out.Targets, nil
}

// LocalRelay calls a relay service in process, skipping HTTP
type LocalRelay struct {
	relay relay.Relayer
}

// NewLocalRelay wraps an in-process relay
func NewLocalRelay(r relay.Relayer) *LocalRelay {
	return &LocalRelay{relay: r}
}

// Chat relays the message and maps relay errors to *ReplyError
func (l *LocalRelay) Chat(ctx context.Context, targetID, message string) (string, error) {
	reply, err := l.relay.RelayChat(ctx, relay.ChatRequest{Message: message, BotID: targetID})
	if err != nil {
		rerr := relay.AsError(err)
		return "", &ReplyError{Status: rerr.Status, Reply: rerr.Message}
	}
	return reply, nil
}

// Targets returns the in-process catalog
func (l *LocalRelay) Targets(context.Context) ([]relay.TargetInfo, error) {
	return l.relay.Targets(), nil
}
