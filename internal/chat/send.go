package chat

import (
	"context"
	"errors"

	"github.com/protonix-ai/protonix/internal/dispatch"
)

// ErrAllTargetsFailed is returned by Send when no target produced a reply
var ErrAllTargetsFailed = errors.New("every target failed to reply")

// Send dispatches a single message, waits for every target and prints the turn
func Send(ctx context.Context, d *dispatch.Dispatcher, r *Renderer, message string) (*dispatch.Batch, error) {
	batch, err := d.HandleSend(ctx, message)
	if err != nil {
		return nil, err
	}
	batch.Wait()

	entries := turnEntries(d.Session(), batch)
	if batch.Comparison {
		r.Comparison(entries)
	} else {
		for _, e := range entries {
			r.Entry(e)
		}
	}

	for _, e := range entries {
		if !e.IsError {
			return batch, nil
		}
	}
	return batch, ErrAllTargetsFailed
}

// turnEntries returns the bot entries of one batch in target order
func turnEntries(s *dispatch.Session, b *dispatch.Batch) []dispatch.Entry {
	byID := make(map[string]dispatch.Entry, len(b.CorrelationIDs))
	for _, e := range s.Messages() {
		if e.CorrelationID != "" {
			byID[e.CorrelationID] = e
		}
	}

	out := make([]dispatch.Entry, 0, len(b.CorrelationIDs))
	for _, id := range b.CorrelationIDs {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out
}
