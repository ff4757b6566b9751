package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/protonix-ai/protonix/internal/config"
	"github.com/protonix-ai/protonix/internal/logger"
	"github.com/sourcegraph/conc"
)

const (
	// ConnectionErrorText is shown when the relay could not be reached
	ConnectionErrorText = "Connection lost. Could not reach the relay."
	// CancelledText is shown when the caller gave up before a reply arrived
	CancelledText = "Request cancelled."
)

// ErrEmptyMessage is returned for blank input; nothing is dispatched
var ErrEmptyMessage = errors.New("message is empty")

// Observer is notified each time a placeholder settles
type Observer func(Entry)

// TurnObserver is notified once per turn, after the placeholders are recorded
// and before any relay call starts
type TurnObserver func(ctx context.Context, b *Batch, message string)

// Batch describes one dispatched turn
type Batch struct {
	Targets        []Target
	CorrelationIDs []string
	Comparison     bool
	FirstTurn      bool

	wg *conc.WaitGroup
}

// Wait blocks until every call of the batch has settled
func (b *Batch) Wait() {
	b.wg.Wait()
}

// Dispatcher fans a message out to its targets and settles the replies into a Session
type Dispatcher struct {
	relay     Relay
	catalog   *Catalog
	session   *Session
	parser    *Parser
	timeout   time.Duration
	logger    logger.Logger
	observers []Observer
	turns     []TurnObserver
	marker    string
	prefix    string
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithCallTimeout bounds each relay call; zero or negative keeps the default
func WithCallTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

// WithObserver registers a hook fired for every settled entry
func WithObserver(o Observer) Option {
	return func(disp *Dispatcher) {
		disp.observers = append(disp.observers, o)
	}
}

// WithTurnObserver registers a hook fired synchronously for every dispatched turn
func WithTurnObserver(o TurnObserver) Option {
	return func(disp *Dispatcher) {
		disp.turns = append(disp.turns, o)
	}
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(disp *Dispatcher) {
		if l != nil {
			disp.logger = l
		}
	}
}

// WithSyntax overrides the broadcast marker and the mention prefix
func WithSyntax(marker, prefix string) Option {
	return func(disp *Dispatcher) {
		if marker != "" {
			disp.marker = marker
		}
		if prefix != "" {
			disp.prefix = prefix
		}
	}
}

// NewDispatcher creates a dispatcher bound to one session
func NewDispatcher(r Relay, catalog *Catalog, session *Session, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		relay:   r,
		catalog: catalog,
		session: session,
		timeout: config.DefaultCallTimeout,
		logger:  logger.Discard,
		marker:  config.DefaultBroadcastMarker,
		prefix:  config.DefaultMentionPrefix,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.parser = NewParser(catalog, d.marker, d.prefix)
	return d
}

// Session returns the session the dispatcher writes to
func (d *Dispatcher) Session() *Session {
	return d.session
}

// Catalog returns the addressable targets
func (d *Dispatcher) Catalog() *Catalog {
	return d.catalog
}

// Resolve picks the targets for message: every target on broadcast, else the
// mentioned targets, else the selected target, else the default target.
// The returned set is never empty.
func (d *Dispatcher) Resolve(message string) ([]Target, bool) {
	sel := d.parser.Parse(message)
	if sel.Broadcast {
		return sel.Targets, true
	}
	if len(sel.Targets) > 0 {
		return sel.Targets, len(sel.Targets) > 1
	}
	if t, ok := d.catalog.Lookup(d.session.Selected()); ok {
		return []Target{t}, false
	}
	return []Target{d.catalog.Default()}, false
}

// HandleSend records the user message and one placeholder per target before
// returning, then calls the relay for every target concurrently. The calls
// derive from ctx, so cancelling it settles the pending placeholders.
func (d *Dispatcher) HandleSend(ctx context.Context, message string) (*Batch, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	targets, comparison := d.Resolve(message)
	ids, first, comparison := d.session.beginTurn(message, targets, comparison)

	batch := &Batch{
		Targets:        targets,
		CorrelationIDs: ids,
		Comparison:     comparison,
		FirstTurn:      first,
		wg:             conc.NewWaitGroup(),
	}

	d.logger.Info("dispatching message", map[string]interface{}{
		"targets":    len(targets),
		"comparison": batch.Comparison,
	})

	for _, o := range d.turns {
		o(ctx, batch, message)
	}

	for i, t := range targets {
		t, id := t, ids[i]
		batch.wg.Go(func() {
			d.call(ctx, t, id, message)
		})
	}

	return batch, nil
}

type callResult struct {
	reply string
	err   error
}

func (d *Dispatcher) call(ctx context.Context, t Target, correlationID, message string) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	results := make(chan callResult, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				results <- callResult{err: fmt.Errorf("relay panicked: %v", p)}
			}
		}()
		reply, err := d.relay.Chat(ctx, t.ID, message)
		results <- callResult{reply: reply, err: err}
	}()

	var res callResult
	select {
	case res = <-results:
	case <-ctx.Done():
		res = callResult{err: ctx.Err()}
	}

	log := d.logger.WithFields(map[string]interface{}{
		logger.TargetKey:   t.ID,
		"correlation_id":   correlationID,
		logger.DurationKey: logger.Since(start),
	})

	text, isError := res.reply, false
	if res.err != nil {
		text, isError = d.failureText(t, res.err), true
		log.Warn("relay call failed", map[string]interface{}{logger.ErrorKey: res.err})
	} else {
		log.Debug("relay call settled", nil)
	}

	entry, ok := d.session.settle(correlationID, text, isError)
	if !ok {
		log.Debug("dropping reply for cleared conversation", nil)
		return
	}

	for _, o := range d.observers {
		o(entry)
	}
}

func (d *Dispatcher) failureText(t Target, err error) string {
	var rerr *ReplyError
	switch {
	case errors.As(err, &rerr) && rerr.Reply != "":
		return rerr.Reply
	case errors.As(err, &rerr):
		return fmt.Sprintf("Relay returned status %d without a reply.", rerr.Status)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("%s did not answer within %s.", t.Name, d.timeout)
	case errors.Is(err, context.Canceled):
		return CancelledText
	default:
		return ConnectionErrorText
	}
}
