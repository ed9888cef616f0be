package router

import (
	"context"
	"strings"
	"sync"
)

// Commands recognised by a Session, compared case-insensitively.
const (
	ExitCommand          = "exit"
	ExitDocumentsCommand = "exit_rag"
)

// Session messages shown on mode changes.
const (
	EnterDocumentsNotice = "Document mode on. Ask about your documents, or type 'exit_rag' to leave."
	LeaveDocumentsNotice = "Document mode off."
	GoodbyeNotice        = "Goodbye!"
)

// Reply is the outcome of one message in a session.
type Reply struct {
	Intent       Intent
	Text         string
	DocumentMode bool
	Done         bool
	// Notice is set when the message changed the session mode.
	Notice string
}

// Session is one conversation. A document search request switches it into
// document mode, where every message goes to the document handler until
// the user leaves with exit_rag.
type Session struct {
	router *Router

	mu           sync.Mutex
	documentMode bool
	done         bool
}

func (r *Router) NewSession() *Session {
	return &Session{router: r}
}

// DocumentMode reports whether the session is in document mode.
func (s *Session) DocumentMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documentMode
}

// Handle processes one user message.
func (s *Session) Handle(ctx context.Context, message string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	message = strings.TrimSpace(message)
	cmd := strings.ToLower(message)
	switch {
	case s.done:
		return Reply{Done: true}
	case cmd == ExitCommand:
		s.done = true
		s.documentMode = false
		return Reply{Done: true, Notice: GoodbyeNotice}
	case message == "":
		return Reply{DocumentMode: s.documentMode}
	case s.documentMode && cmd == ExitDocumentsCommand:
		s.documentMode = false
		return Reply{Notice: LeaveDocumentsNotice}
	case s.documentMode:
		return Reply{
			Intent:       SearchDocuments,
			Text:         s.router.Dispatch(ctx, SearchDocuments, message),
			DocumentMode: true,
		}
	}

	intent := Detect(message)
	reply := Reply{Intent: intent}
	if intent == SearchDocuments {
		s.documentMode = true
		reply.Notice = EnterDocumentsNotice
	}
	reply.Text = s.router.Dispatch(ctx, intent, message)
	reply.DocumentMode = s.documentMode
	return reply
}
