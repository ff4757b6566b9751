// Package relay forwards one chat message to one configured upstream provider
// and normalizes the reply into a single {reply} shape.
package relay

// ChatRequest is the body accepted by POST /api/chat
type ChatRequest struct {
	Message string `json:"message" validate:"notblank"`
	BotID   string `json:"botId" validate:"notblank"`
}

// ChatReply is the body returned for both successful and failed relays
type ChatReply struct {
	Reply string `json:"reply"`
}

// Message is one entry of an OpenAI compatible messages array
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// completionRequest is the upstream chat-completion payload
type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// TargetInfo is the public view of a configured target
type TargetInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Model   string `json:"model"`
	Logo    string `json:"logo,omitempty"`
	Accent  string `json:"accent,omitempty"`
	Enabled bool   `json:"enabled"`
	Default bool   `json:"default"`
}

// TargetsResponse is returned by GET /api/targets
type TargetsResponse struct {
	Targets []TargetInfo `json:"targets"`
}
