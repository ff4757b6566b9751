package chat

import (
	"context"
	"time"

	"github.com/protonix-ai/protonix/internal/dispatch"
	"github.com/protonix-ai/protonix/internal/history"
	"github.com/protonix-ai/protonix/internal/logger"
)

// HistoryStore is the part of the history store the chat session writes to
type HistoryStore interface {
	CreateConversation(ctx context.Context, id, title string, createdAt time.Time) error
	AppendEntry(ctx context.Context, e history.Entry) error
}

// Recorder mirrors a dispatch session into the history store.
// Write failures are logged and never interrupt the chat.
type Recorder struct {
	store  HistoryStore
	logger logger.Logger
}

// NewRecorder creates a recorder; a nil store disables recording
func NewRecorder(store HistoryStore, log logger.Logger) *Recorder {
	if log == nil {
		log = logger.Discard
	}
	return &Recorder{store: store, logger: log}
}

// Turn records the user side of a dispatched batch, opening the conversation on its first turn
func (r *Recorder) Turn(ctx context.Context, s *dispatch.Session, b *dispatch.Batch, text string) {
	if r == nil || r.store == nil {
		return
	}

	id := s.ConversationID()
	now := time.Now()
	if b.FirstTurn {
		if err := r.store.CreateConversation(ctx, id, s.Title(), now); err != nil {
			r.logger.Error("failed to record conversation", map[string]interface{}{logger.ErrorKey: err})
			return
		}
	}

	if err := r.store.AppendEntry(ctx, history.Entry{
		ConversationID: id,
		Sender:         string(dispatch.SenderUser),
		Text:           text,
		CreatedAt:      now,
	}); err != nil {
		r.logger.Error("failed to record user entry", map[string]interface{}{logger.ErrorKey: err})
	}
}

// Settled records one settled bot entry
func (r *Recorder) Settled(ctx context.Context, conversationID string, e dispatch.Entry) {
	if r == nil || r.store == nil {
		return
	}

	if err := r.store.AppendEntry(ctx, history.Entry{
		ConversationID: conversationID,
		CorrelationID:  e.CorrelationID,
		Sender:         string(e.Sender),
		TargetID:       e.TargetID,
		Text:           e.Text,
		IsError:        e.IsError,
		CreatedAt:      e.Timestamp,
	}); err != nil {
		r.logger.Error("failed to record reply", map[string]interface{}{
			logger.ErrorKey:  err,
			logger.TargetKey: e.TargetID,
		})
	}
}
