package chat

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/protonix-ai/protonix/internal/config"
	"github.com/protonix-ai/protonix/internal/dispatch"
	"github.com/protonix-ai/protonix/internal/history"
	"github.com/protonix-ai/protonix/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type relayFunc func(ctx context.Context, targetID, message string) (string, error)

func (f relayFunc) Chat(ctx context.Context, targetID, message string) (string, error) {
	return f(ctx, targetID, message)
}

// memoryStore records history writes in memory
type memoryStore struct {
	mu            sync.Mutex
	conversations map[string]string
	entries       []history.Entry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{conversations: map[string]string{}}
}

func (m *memoryStore) CreateConversation(_ context.Context, id, title string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[id] = title
	return nil
}

func (m *memoryStore) AppendEntry(_ context.Context, e history.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[e.ConversationID]; !ok {
		return assert.AnError
	}
	m.entries = append(m.entries, e)
	return nil
}

func testCatalog(t *testing.T) *dispatch.Catalog {
	t.Helper()
	c, err := dispatch.CatalogFromConfig(config.Default())
	require.NoError(t, err)
	return c
}

func runSession(t *testing.T, input string, r dispatch.Relay, store HistoryStore) (string, *ChatSession) {
	t.Helper()
	return runSessionWith(t, config.Default().Client, input, r, store)
}

func runSessionWith(t *testing.T, client config.ClientConfig, input string, r dispatch.Relay, store HistoryStore) (string, *ChatSession) {
	t.Helper()
	var out bytes.Buffer

	cs := NewChatSession(Options{
		Relay:    r,
		Catalog:  testCatalog(t),
		Client:   client,
		Theme:    theme.New(theme.Plain, &out),
		Input:    strings.NewReader(input),
		Output:   &out,
		Recorder: NewRecorder(store, nil),
	})
	require.NoError(t, cs.Start(context.Background()))
	return out.String(), cs
}

func echoRelay() dispatch.Relay {
	return relayFunc(func(ctx context.Context, targetID, message string) (string, error) {
		return "**" + targetID + "** heard: " + message, nil
	})
}

func TestChatSession_LinearReply(t *testing.T) {
	out, cs := runSession(t, "hello\nexit\n", echoRelay(), nil)

	assert.Contains(t, out, "Asking ChatGPT...")
	assert.Contains(t, out, "◎ ChatGPT > gpt heard: hello")
	assert.Contains(t, out, "Goodbye")
	assert.False(t, cs.session.Comparison())
}

func TestChatSession_ComparisonTable(t *testing.T) {
	out, cs := runSession(t, "@claude @deepseek compare\n", echoRelay(), nil)

	assert.Contains(t, out, "Asking Claude, DeepSeek...")
	assert.Contains(t, out, "✺ Claude")
	assert.Contains(t, out, "◈ DeepSeek")
	assert.Contains(t, out, "claude heard")
	assert.Contains(t, out, "deepseek heard")
	assert.NotContains(t, out, "✺ Claude >")
	assert.True(t, cs.session.Comparison())
}

func TestChatSession_Commands(t *testing.T) {
	input := strings.Join([]string{
		"/use grok",
		"/mode",
		"hi",
		"/use nobody",
		"/clear-target",
		"/mode",
		"/targets",
		"/enhance write a poem",
		"/new",
		"/bogus",
		"/help",
		"exit",
	}, "\n") + "\n"

	out, cs := runSession(t, input, echoRelay(), nil)

	assert.Contains(t, out, "Messages without mentions now go to Grok.")
	assert.Contains(t, out, "Mode: linear, target: grok")
	assert.Contains(t, out, "✕ Grok > grok heard: hi")
	assert.Contains(t, out, `Unknown target "nobody"`)
	assert.Contains(t, out, "Mode: linear, target: gpt (default)")
	assert.Contains(t, out, "perplexity")
	assert.Contains(t, out, `gpt heard: Optimize prompt for professional output: "write a poem"`)
	assert.Contains(t, out, "Started a new conversation.")
	assert.Contains(t, out, "Unknown command /bogus")
	assert.Contains(t, out, "/enhance <text>")
	assert.True(t, cs.session.IsEmpty())
}

func TestChatSession_EOFEnds(t *testing.T) {
	out, _ := runSession(t, "hello", echoRelay(), nil)

	assert.Contains(t, out, "gpt heard: hello")
	assert.Contains(t, out, "Goodbye")
}

func TestChatSession_ErrorReply(t *testing.T) {
	r := relayFunc(func(ctx context.Context, targetID, message string) (string, error) {
		return "", &dispatch.ReplyError{Status: 400, Reply: "Error: API Key for gpt is missing in server environment."}
	})
	out, _ := runSession(t, "hi\n", r, nil)

	assert.Contains(t, out, "◎ ChatGPT > Error: API Key for gpt is missing in server environment.")
}

func TestChatSession_RecordsHistory(t *testing.T) {
	store := newMemoryStore()
	_, cs := runSession(t, "Explain recursion to a five year old\n@all again\n", echoRelay(), store)

	require.Len(t, store.conversations, 1)
	assert.Equal(t, "Explain recursion to a fi...", store.conversations[cs.session.ConversationID()])
	assert.Len(t, store.entries, 2+1+6)

	var users int
	for _, e := range store.entries {
		if e.Sender == string(dispatch.SenderUser) {
			users++
		}
	}
	assert.Equal(t, 2, users)
}

func TestChatSession_StickyComparisonKeepsEveryColumn(t *testing.T) {
	client := config.Default().Client
	client.StickyComparison = true

	out, cs := runSessionWith(t, client, "@all q1\n@claude q2\n", echoRelay(), nil)

	at := strings.Index(out, "Asking Claude...")
	require.NotEqual(t, -1, at)
	second := out[at:]
	for _, label := range []string{"◎ ChatGPT", "✺ Claude", "✦ Gemini", "⌘ Perplexity", "◈ DeepSeek", "✕ Grok"} {
		assert.Contains(t, second, label)
	}
	assert.Contains(t, second, "claude heard: q2")
	assert.NotContains(t, second, "gpt heard: q2")
	assert.NotContains(t, second, "✺ Claude >")
	assert.True(t, cs.session.Comparison())
}

func TestChatSession_RecomputedComparisonShowsAskedColumnsOnly(t *testing.T) {
	out, _ := runSession(t, "@all q1\n@claude @gpt q2\n", echoRelay(), nil)

	at := strings.Index(out, "Asking Claude, ChatGPT...")
	require.NotEqual(t, -1, at)
	second := out[at:]
	assert.Contains(t, second, "✺ Claude")
	assert.Contains(t, second, "◎ ChatGPT")
	assert.NotContains(t, second, "◈ DeepSeek")
}

func TestChatSession_PromptReturnsAfterTurnSettles(t *testing.T) {
	slow := relayFunc(func(ctx context.Context, targetID, message string) (string, error) {
		time.Sleep(20 * time.Millisecond)
		return "late " + message, nil
	})

	out, _ := runSession(t, "hello\n/new\n", slow, nil)

	asking := strings.Index(out, "Asking ChatGPT...")
	reply := strings.Index(out, "◎ ChatGPT > late hello")
	cleared := strings.Index(out, "Started a new conversation.")
	require.NotEqual(t, -1, asking)
	require.NotEqual(t, -1, reply, "the reply must not be dropped by the following /new")
	assert.Less(t, asking, reply)
	assert.Less(t, reply, cleared)
}
