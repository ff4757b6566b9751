package relay

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/protonix-ai/protonix/internal/logger"
)

// logPrefixRunes is how much of a message is written to the diagnostic log
const logPrefixRunes = 25

// Service resolves a target and relays one message to it.
// It holds no mutable state, so one instance serves concurrent requests.
type Service struct {
	table    *Table
	upstream Upstream
	logger   logger.Logger
	validate *validator.Validate
}

// NewService creates the relay service
func NewService(table *Table, upstream Upstream, log logger.Logger) *Service {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if log == nil {
		log = logger.Discard
	}

	return &Service{
		table:    table,
		upstream: upstream,
		logger:   log,
		validate: v,
	}
}

// Targets returns the public target catalog
func (s *Service) Targets() []TargetInfo {
	return s.table.Targets()
}

// RelayChat forwards the request upstream and returns the reply text.
// Every failure is a *Error whose Message is safe to show to the client.
func (s *Service) RelayChat(ctx context.Context, req ChatRequest) (string, error) {
	if err := s.validateRequest(req); err != nil {
		return "", err
	}

	provider, fellBack, err := s.table.Resolve(req.BotID)
	if err != nil {
		s.logger.Warn("rejected unknown target", map[string]interface{}{logger.TargetKey: req.BotID})
		return "", err
	}

	log := s.logger.WithFields(map[string]interface{}{
		logger.TargetKey: provider.TargetID,
		"model":          provider.Model,
	})
	if fellBack {
		log.Warn("unknown target, using default", map[string]interface{}{"requested": req.BotID})
	}
	log.Info("relaying chat message", map[string]interface{}{"message_prefix": truncate(req.Message, logPrefixRunes)})

	if provider.APIKey.Empty() {
		log.Error("api key missing", nil)
		return "", newError(KindConfiguration,
			fmt.Sprintf("Error: API Key for %s is missing in server environment.", provider.TargetID), nil)
	}

	start := time.Now()
	reply, err := s.upstream.Complete(ctx, provider, buildMessages(provider, req.Message))
	if err != nil {
		rerr := classify(err)
		log.Error("upstream call failed", map[string]interface{}{
			logger.ErrorKey:    err,
			"kind":             rerr.Kind,
			logger.DurationKey: logger.Since(start),
		})
		return "", rerr
	}

	log.Debug("upstream replied", map[string]interface{}{logger.DurationKey: logger.Since(start)})
	return reply, nil
}

func (s *Service) validateRequest(req ChatRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newError(KindInvalidRequest, "Invalid request.", err)
	}

	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	verb := "is"
	if len(missing) > 1 {
		verb = "are"
	}
	return newError(KindInvalidRequest, fmt.Sprintf("%s %s required", strings.Join(missing, " and "), verb), nil)
}

func buildMessages(p ProviderConfig, message string) []Message {
	messages := make([]Message, 0, 2)
	if p.SystemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: p.SystemPrompt})
	}
	return append(messages, Message{Role: RoleUser, Content: message})
}

func classify(err error) *Error {
	var ue *UpstreamError
	switch {
	case errors.As(err, &ue):
		return newError(KindUpstream, UpstreamErrorPrefix+ue.Message, err)
	case errors.Is(err, ErrSilentReply):
		return newError(KindMalformed, SilentReplyMessage, err)
	default:
		return newError(KindTransport, TransportErrorMessage, err)
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
