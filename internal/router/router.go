// Package router dispatches chat messages to the handler for their intent.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"assistant/internal/logging"
)

// Intent is the coarse purpose of a user message.
type Intent int

const (
	Generic Intent = iota
	ScheduleMeeting
	SendEmail
	Weather
	SearchDocuments
)

func (i Intent) String() string {
	switch i {
	case ScheduleMeeting:
		return "schedule_meeting"
	case SendEmail:
		return "send_email"
	case Weather:
		return "weather"
	case SearchDocuments:
		return "search_documents"
	default:
		return "generic"
	}
}

var keywords = []struct {
	intent Intent
	words  []string
}{
	{ScheduleMeeting, []string{"meeting", "schedule"}},
	{SendEmail, []string{"email", "send"}},
	{Weather, []string{"weather"}},
	{SearchDocuments, []string{"document", "search"}},
}

// Detect classifies message by keyword. The first matching group wins, so
// "send the meeting notes" schedules a meeting.
func Detect(message string) Intent {
	lower := strings.ToLower(message)
	for _, k := range keywords {
		for _, w := range k.words {
			if strings.Contains(lower, w) {
				return k.intent
			}
		}
	}
	return Generic
}

// Handler produces a reply to one message.
type Handler interface {
	Respond(ctx context.Context, message string) string
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, message string) string

func (f HandlerFunc) Respond(ctx context.Context, message string) string { return f(ctx, message) }

// Unavailable answers for features that are not configured.
type Unavailable struct {
	Feature string
}

func (u Unavailable) Respond(context.Context, string) string {
	return fmt.Sprintf("Sorry, %s is not available in this assistant.", u.Feature)
}

// Router maps intents to handlers.
type Router struct {
	handlers map[Intent]Handler
	logger   *slog.Logger
}

// New builds a router. Intents without a handler get an Unavailable one.
func New(handlers map[Intent]Handler, logger *slog.Logger) *Router {
	r := &Router{
		handlers: map[Intent]Handler{
			Generic:         Unavailable{Feature: "general chat"},
			ScheduleMeeting: Unavailable{Feature: "meeting scheduling"},
			SendEmail:       Unavailable{Feature: "email"},
			Weather:         Unavailable{Feature: "weather lookup"},
			SearchDocuments: Unavailable{Feature: "document search"},
		},
		logger: logging.OrDefault(logger),
	}
	for intent, h := range handlers {
		if h != nil {
			r.handlers[intent] = h
		}
	}
	return r
}

// Route detects the intent of message and returns the matching reply.
func (r *Router) Route(ctx context.Context, message string) (Intent, string) {
	intent := Detect(message)
	return intent, r.Dispatch(ctx, intent, message)
}

// Dispatch sends message to the handler for intent.
func (r *Router) Dispatch(ctx context.Context, intent Intent, message string) string {
	r.logger.Debug("routing message", "intent", intent)
	return r.handlers[intent].Respond(ctx, message)
}
