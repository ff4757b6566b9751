// Package chat is the interactive terminal front-end of the dispatch client
package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/protonix-ai/protonix/internal/config"
	"github.com/protonix-ai/protonix/internal/dispatch"
	"github.com/protonix-ai/protonix/internal/logger"
	"github.com/protonix-ai/protonix/internal/relay"
	"github.com/protonix-ai/protonix/internal/theme"
)

// TargetLister returns the relay's target catalog
type TargetLister interface {
	Targets(ctx context.Context) ([]relay.TargetInfo, error)
}

// ChatSession represents an interactive chat session
type ChatSession struct {
	dispatcher *dispatch.Dispatcher
	session    *dispatch.Session
	renderer   *Renderer
	recorder   *Recorder
	lister     TargetLister
	sticky     bool
	theme      theme.Theme
	reader     *bufio.Reader
	logger     logger.Logger
	ctx        context.Context
}

// Options holds the collaborators of a ChatSession
type Options struct {
	Relay    dispatch.Relay
	Lister   TargetLister
	Catalog  *dispatch.Catalog
	Client   config.ClientConfig
	Theme    theme.Theme
	Input    io.Reader
	Output   io.Writer
	Recorder *Recorder
	Logger   logger.Logger
}

// NewChatSession creates and configures a new chat session
func NewChatSession(opts Options) *ChatSession {
	log := opts.Logger
	if log == nil {
		log = logger.Discard
	}

	cs := &ChatSession{
		session:  dispatch.NewSession(opts.Client.StickyComparison),
		renderer: NewRenderer(opts.Theme, opts.Catalog, opts.Output),
		recorder: opts.Recorder,
		lister:   opts.Lister,
		sticky:   opts.Client.StickyComparison,
		theme:    opts.Theme,
		reader:   bufio.NewReader(opts.Input),
		logger:   log,
		ctx:      context.Background(),
	}

	cs.dispatcher = dispatch.NewDispatcher(opts.Relay, opts.Catalog, cs.session,
		dispatch.WithSyntax(opts.Client.BroadcastMarker, opts.Client.MentionPrefix),
		dispatch.WithCallTimeout(opts.Client.CallTimeout),
		dispatch.WithLogger(log),
		dispatch.WithTurnObserver(cs.onTurn),
		dispatch.WithObserver(cs.onSettled),
	)

	return cs
}

// Start runs the read-dispatch loop until exit, EOF or ctx is done
func (s *ChatSession) Start(ctx context.Context) error {
	s.ctx = ctx
	s.showWelcomeMessage()

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := s.readUserInput()
		if errors.Is(err, io.EOF) {
			s.theme.Info().Println("\nEnding chat session. Goodbye")
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading input: %w", err)
		}
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit":
			s.theme.Info().Println("Ending chat session. Goodbye")
			return nil
		case "clear":
			s.theme.Info().Print("\033[H\033[2J")
			continue
		}

		if strings.HasPrefix(input, "/") {
			s.handleCommand(ctx, input)
			continue
		}

		s.processMessage(ctx, input)
	}
}

func (s *ChatSession) showWelcomeMessage() {
	s.theme.Info().Println("\nChat session started.")
	s.theme.Subtle().Println("Conversation ID:", s.session.ConversationID())
	s.theme.Secondary().Println("Tag @<id> to pick models, @all to compare them. Type /help for commands, 'exit' to quit.")
}

func (s *ChatSession) readUserInput() (string, error) {
	label := "You"
	if sel := s.session.Selected(); sel != "" {
		label = "You → " + sel
	}
	s.theme.Primary().Print(label + " > ")

	input, err := s.reader.ReadString('\n')
	if err != nil && (input == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func (s *ChatSession) processMessage(ctx context.Context, input string) {
	batch, err := s.dispatcher.HandleSend(ctx, input)
	if err != nil {
		s.theme.Warning().Println(err.Error())
		return
	}

	// replies print as they settle, but the prompt only returns once the turn is settled
	batch.Wait()

	if !batch.Comparison {
		return
	}
	if s.sticky {
		s.renderer.Comparison(turnEntries(s.session, batch), s.dispatcher.Catalog().All()...)
		return
	}
	s.renderer.Comparison(turnEntries(s.session, batch))
}

func (s *ChatSession) onTurn(ctx context.Context, b *dispatch.Batch, message string) {
	s.recorder.Turn(ctx, s.session, b, message)

	names := make([]string, 0, len(b.Targets))
	for _, t := range b.Targets {
		names = append(names, t.Name)
	}
	s.theme.Subtle().Printf("Asking %s...\n", strings.Join(names, ", "))
}

func (s *ChatSession) onSettled(e dispatch.Entry) {
	s.recorder.Settled(s.ctx, s.session.ConversationID(), e)
	if !s.session.Comparison() {
		s.renderer.Entry(e)
	}
}

func (s *ChatSession) handleCommand(ctx context.Context, input string) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/use":
		t, ok := s.dispatcher.Catalog().Lookup(arg)
		if !ok {
			s.theme.Error().Printf("Unknown target %q. Type /targets to list them.\n", arg)
			return
		}
		s.session.Select(t.ID)
		s.theme.Success().Printf("Messages without mentions now go to %s.\n", t.Name)

	case "/clear-target":
		s.session.ClearSelection()
		s.theme.Success().Printf("Messages without mentions now go to %s.\n", s.dispatcher.Catalog().Default().Name)

	case "/new":
		s.session.NewConversation()
		s.theme.Success().Println("Started a new conversation.")
		s.theme.Subtle().Println("Conversation ID:", s.session.ConversationID())

	case "/enhance":
		if arg == "" {
			s.theme.Warning().Println("Usage: /enhance <prompt>")
			return
		}
		enhanced := dispatch.Enhance(arg)
		s.theme.Subtle().Println(enhanced)
		s.processMessage(ctx, enhanced)

	case "/targets":
		s.showTargets(ctx)

	case "/mode":
		mode := "linear"
		if s.session.Comparison() {
			mode = "comparison"
		}
		target := s.session.Selected()
		if target == "" {
			target = s.dispatcher.Catalog().Default().ID + " (default)"
		}
		s.theme.Info().Printf("Mode: %s, target: %s\n", mode, target)

	case "/help":
		s.showHelp()

	default:
		s.theme.Warning().Printf("Unknown command %s. Type /help for commands.\n", name)
	}
}

func (s *ChatSession) showTargets(ctx context.Context) {
	if s.lister != nil {
		infos, err := s.lister.Targets(ctx)
		if err == nil {
			s.renderer.Targets(infos, s.session.Selected())
			return
		}
		s.logger.Warn("failed to list relay targets", map[string]interface{}{logger.ErrorKey: err})
	}

	def := s.dispatcher.Catalog().Default().ID
	infos := make([]relay.TargetInfo, 0, s.dispatcher.Catalog().Len())
	for _, t := range s.dispatcher.Catalog().All() {
		infos = append(infos, relay.TargetInfo{ID: t.ID, Name: t.Name, Enabled: true, Default: t.ID == def})
	}
	s.renderer.Targets(infos, s.session.Selected())
}

func (s *ChatSession) showHelp() {
	help := []string{
		"/use <id>        send unaddressed messages to <id>",
		"/clear-target    go back to the default target",
		"/new             start a new conversation",
		"/enhance <text>  rewrite <text> as a professional prompt and send it",
		"/targets         list targets",
		"/mode            show the current mode and target",
		"clear            clear the screen",
		"exit             end the session",
	}
	for _, line := range help {
		s.theme.Secondary().Println(line)
	}
}
