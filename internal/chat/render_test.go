package chat

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/protonix-ai/protonix/internal/dispatch"
	"github.com/protonix-ai/protonix/internal/history"
	"github.com/protonix-ai/protonix/internal/relay"
	"github.com/protonix-ai/protonix/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Entry(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(theme.New(theme.Plain, &buf), testCatalog(t), &buf)

	r.Entry(dispatch.Entry{TargetID: "deepseek", Text: "## Recursion\nIs **neat**."})
	r.Entry(dispatch.Entry{TargetID: "gone", Text: "AI Error: quota", IsError: true})

	assert.Equal(t, "◈ DeepSeek > Recursion\nIs neat.\ngone > AI Error: quota\n", buf.String())
}

func TestRenderer_Comparison(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(theme.New(theme.Plain, &buf), testCatalog(t), &buf)

	r.Comparison([]dispatch.Entry{
		{TargetID: "gpt", Text: "4"},
		{TargetID: "claude", Text: "Connection lost.", IsError: true},
		{TargetID: "gemini", IsLoading: true},
	})

	out := buf.String()
	assert.Contains(t, out, "◎ ChatGPT")
	assert.Contains(t, out, "✺ Claude")
	assert.Contains(t, out, "⚠ Connection lost.")
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, "\x1b[")

	buf.Reset()
	r.Comparison(nil)
	assert.Empty(t, buf.String())
}

func TestRenderer_ComparisonWithFixedColumns(t *testing.T) {
	var buf bytes.Buffer
	catalog := testCatalog(t)
	r := NewRenderer(theme.New(theme.Plain, &buf), catalog, &buf)

	r.Comparison([]dispatch.Entry{{TargetID: "claude", Text: "only me"}}, catalog.All()...)

	out := buf.String()
	assert.Contains(t, out, "◎ ChatGPT")
	assert.Contains(t, out, "✺ Claude")
	assert.Contains(t, out, "✕ Grok")
	assert.Contains(t, out, "only me")
	assert.Less(t, strings.Index(out, "◎ ChatGPT"), strings.Index(out, "✺ Claude"), "columns follow the catalog order")
}

func TestRenderer_Conversations(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(theme.New(theme.Plain, &buf), nil, &buf)

	r.Conversations(nil)
	assert.Equal(t, "No saved conversations yet.\n", buf.String())

	buf.Reset()
	r.Conversations([]history.Conversation{
		{ID: "c-2", Title: "Compare sorting a...", CreatedAt: time.Now(), Entries: 4},
	})
	out := buf.String()
	assert.Contains(t, out, "c-2")
	assert.Contains(t, out, "Compare sorting a...")
	assert.Contains(t, out, "4")
}

func TestRenderer_Transcript(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(theme.New(theme.Plain, &buf), testCatalog(t), &buf)

	r.Transcript([]history.Entry{
		{Sender: "user", Text: "@claude hi"},
		{Sender: "bot", TargetID: "claude", Text: "**Hello**"},
		{Sender: "bot", TargetID: "gpt", Text: "AI Error: quota", IsError: true},
	})

	assert.Equal(t, "You > @claude hi\n✺ Claude > Hello\n◎ ChatGPT > AI Error: quota\n", buf.String())
}

func TestRenderer_Targets(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(theme.New(theme.Plain, &buf), nil, &buf)

	r.Targets([]relay.TargetInfo{
		{ID: "gpt", Name: "ChatGPT", Model: "openai/gpt-4o-2024-08-06", Enabled: true, Default: true},
		{ID: "claude", Name: "Claude", Model: "anthropic/claude-3.5-sonnet"},
	}, "claude")

	out := buf.String()
	assert.Contains(t, out, "ready, default")
	assert.Contains(t, out, "no api key, selected")
}

func TestSend(t *testing.T) {
	cat := testCatalog(t)

	t.Run("linear success", func(t *testing.T) {
		var buf bytes.Buffer
		d := dispatch.NewDispatcher(echoRelay(), cat, dispatch.NewSession(false))
		b, err := Send(context.Background(), d, NewRenderer(theme.New(theme.Plain, &buf), cat, &buf), "Explain recursion")

		require.NoError(t, err)
		assert.False(t, b.Comparison)
		assert.Contains(t, buf.String(), "gpt heard: Explain recursion")
	})

	t.Run("partial failure succeeds", func(t *testing.T) {
		r := relayFunc(func(ctx context.Context, targetID, message string) (string, error) {
			if targetID == "claude" {
				return "", errors.New("down")
			}
			return "fine", nil
		})
		var buf bytes.Buffer
		d := dispatch.NewDispatcher(r, cat, dispatch.NewSession(false))
		b, err := Send(context.Background(), d, NewRenderer(theme.New(theme.Plain, &buf), cat, &buf), "@all status?")

		require.NoError(t, err)
		assert.True(t, b.Comparison)
		assert.Contains(t, buf.String(), "fine")
		assert.Contains(t, buf.String(), "Connection")
	})

	t.Run("all failed", func(t *testing.T) {
		r := relayFunc(func(ctx context.Context, targetID, message string) (string, error) {
			return "", errors.New("down")
		})
		var buf bytes.Buffer
		d := dispatch.NewDispatcher(r, cat, dispatch.NewSession(false))
		_, err := Send(context.Background(), d, NewRenderer(theme.New(theme.Plain, &buf), cat, &buf), "@gpt @claude hi")

		assert.ErrorIs(t, err, ErrAllTargetsFailed)
	})

	t.Run("empty", func(t *testing.T) {
		d := dispatch.NewDispatcher(echoRelay(), cat, dispatch.NewSession(false))
		_, err := Send(context.Background(), d, NewRenderer(theme.New(theme.Plain, &bytes.Buffer{}), cat, &bytes.Buffer{}), "  ")

		assert.ErrorIs(t, err, dispatch.ErrEmptyMessage)
	})
}
