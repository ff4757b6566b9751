package dispatch

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// titleRunes is how much of the first message becomes the conversation title
const titleRunes = 25

// Sender identifies who produced a transcript entry
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Entry is one line of the transcript. A bot entry starts as a loading
// placeholder and is replaced in place once its call settles.
type Entry struct {
	Text          string
	Sender        Sender
	TargetID      string
	CorrelationID string
	IsLoading     bool
	IsError       bool
	Timestamp     time.Time
}

// Session is the client-side state of one conversation.
// All methods are safe for concurrent use.
type Session struct {
	mu sync.RWMutex

	conversationID string
	title          string
	messages       []Entry
	selected       string
	comparison     bool
	pending        map[string]int
	sticky         bool
	now            func() time.Time
}

// NewSession creates an empty session. With sticky set, comparison mode stays
// on once entered until NewConversation is called.
func NewSession(sticky bool) *Session {
	return &Session{
		conversationID: uuid.NewString(),
		pending:        make(map[string]int),
		sticky:         sticky,
		now:            time.Now,
	}
}

// ConversationID identifies the current conversation
func (s *Session) ConversationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conversationID
}

// Title is derived from the first message of the conversation
func (s *Session) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// Messages returns a snapshot of the transcript in insertion order
func (s *Session) Messages() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.messages))
	copy(out, s.messages)
	return out
}

// Column returns the bot entries of one target in insertion order
func (s *Session) Column(targetID string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for _, e := range s.messages {
		if e.Sender == SenderBot && e.TargetID == targetID {
			out = append(out, e)
		}
	}
	return out
}

// Select makes targetID the explicit target for unaddressed messages
func (s *Session) Select(targetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = targetID
}

// ClearSelection reverts unaddressed messages to the default target
func (s *Session) ClearSelection() {
	s.Select("")
}

// Selected returns the explicitly selected target id, or ""
func (s *Session) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Comparison reports whether the transcript is shown as per-target columns
func (s *Session) Comparison() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comparison
}

// Pending returns the number of unsettled calls
func (s *Session) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}

// IsEmpty reports whether nothing has been sent in this conversation
func (s *Session) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages) == 0
}

// NewConversation clears the transcript, selection, mode and pending calls.
// Replies that arrive later for the old conversation are dropped.
func (s *Session) NewConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversationID = uuid.NewString()
	s.title = ""
	s.messages = nil
	s.selected = ""
	s.comparison = false
	s.pending = make(map[string]int)
}

// beginTurn appends the user entry and one placeholder per target, returning
// the correlation ids in target order, whether this was the first turn and the
// resulting comparison mode.
func (s *Session) beginTurn(text string, targets []Target, comparison bool) ([]string, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	first := len(s.messages) == 0
	if first {
		s.title = conversationTitle(text)
	}

	if s.sticky {
		s.comparison = s.comparison || comparison
	} else {
		s.comparison = comparison
	}

	now := s.now()
	s.messages = append(s.messages, Entry{Text: text, Sender: SenderUser, Timestamp: now})

	ids := make([]string, 0, len(targets))
	for _, t := range targets {
		id := uuid.NewString()
		s.pending[id] = len(s.messages)
		s.messages = append(s.messages, Entry{
			Sender:        SenderBot,
			TargetID:      t.ID,
			CorrelationID: id,
			IsLoading:     true,
			Timestamp:     now,
		})
		ids = append(ids, id)
	}

	return ids, first, s.comparison
}

// settle replaces the placeholder for correlationID. It returns false when the
// placeholder no longer exists, either already settled or cleared by NewConversation.
func (s *Session) settle(correlationID, text string, isError bool) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.pending[correlationID]
	if !ok {
		return Entry{}, false
	}
	delete(s.pending, correlationID)

	e := s.messages[i]
	e.Text = text
	e.IsLoading = false
	e.IsError = isError
	e.Timestamp = s.now()
	s.messages[i] = e

	return e, true
}

func conversationTitle(text string) string {
	if utf8.RuneCountInString(text) > titleRunes {
		text = string([]rune(text)[:titleRunes])
	}
	return text + "..."
}
