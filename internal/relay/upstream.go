package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// maxUpstreamBody caps how much of an upstream reply is read
const maxUpstreamBody = 4 << 20

// Upstream performs one chat-completion call against a provider
type Upstream interface {
	Complete(ctx context.Context, p ProviderConfig, messages []Message) (string, error)
}

// HTTPDoer is the subset of *http.Client used by HTTPUpstream
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPUpstream calls OpenAI compatible chat-completion endpoints
type HTTPUpstream struct {
	client  HTTPDoer
	referer string
	title   string
}

// NewHTTPUpstream creates an upstream client. referer and title are sent as
// attribution headers, which OpenRouter uses to identify the calling app.
func NewHTTPUpstream(client HTTPDoer, referer, title string) *HTTPUpstream {
	return &HTTPUpstream{
		client:  client,
		referer: referer,
		title:   title,
	}
}

// Complete posts the messages and extracts the first completion's content.
// A provider error object yields *UpstreamError; a body without content yields ErrSilentReply.
func (u *HTTPUpstream) Complete(ctx context.Context, p ProviderConfig, messages []Message) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Model:       p.Model,
		Messages:    messages,
		MaxTokens:   p.Sampling.MaxTokens,
		Temperature: p.Sampling.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode upstream request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.UpstreamURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey.value())
	req.Header.Set("Content-Type", "application/json")
	if u.referer != "" {
		req.Header.Set("HTTP-Referer", u.referer)
	}
	if u.title != "" {
		req.Header.Set("X-Title", u.title)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream call to %s failed: %w", p.TargetID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return "", fmt.Errorf("failed to read upstream reply: %w", err)
	}

	return interpretReply(body)
}

// interpretReply mirrors how the provider reply is consumed: an error object wins,
// then choices[0].message.content is taken verbatim.
func interpretReply(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", ErrInvalidBody
	}

	if e := gjson.GetBytes(body, "error"); e.Exists() && e.Type != gjson.Null {
		return "", upstreamError(e)
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if content.Type != gjson.String {
		return "", ErrSilentReply
	}

	return content.String(), nil
}

func upstreamError(e gjson.Result) *UpstreamError {
	ue := &UpstreamError{}
	switch {
	case e.IsObject():
		ue.Message = e.Get("message").String()
		ue.Code = e.Get("code").String()
	case e.Type == gjson.String:
		ue.Message = e.String()
	}
	if ue.Message == "" {
		ue.Message = "Failed to fetch response."
	}
	return ue
}
