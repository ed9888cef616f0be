package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant/internal/logging"
)

func TestDetect(t *testing.T) {
	cases := map[string]Intent{
		"Schedule a call tomorrow":          ScheduleMeeting,
		"send the meeting notes":            ScheduleMeeting,
		"Please EMAIL Bob":                  SendEmail,
		"send it":                           SendEmail,
		"what's the weather in Oslo":        Weather,
		"search my notes":                   SearchDocuments,
		"Which Document mentions Cassandra": SearchDocuments,
		"tell me a joke":                    Generic,
		"":                                  Generic,
	}
	for msg, want := range cases {
		assert.Equal(t, want, Detect(msg), msg)
	}
}

func TestIntent_String(t *testing.T) {
	assert.Equal(t, "search_documents", SearchDocuments.String())
	assert.Equal(t, "generic", Intent(42).String())
}

type recorder struct {
	messages []string
	reply    string
}

func (r *recorder) Respond(_ context.Context, message string) string {
	r.messages = append(r.messages, message)
	return r.reply
}

func TestRouter_UnconfiguredIntentsAreUnavailable(t *testing.T) {
	generic := &recorder{reply: "hi"}
	r := New(map[Intent]Handler{Generic: generic}, logging.Discard())

	intent, reply := r.Route(context.Background(), "hello")
	assert.Equal(t, Generic, intent)
	assert.Equal(t, "hi", reply)

	intent, reply = r.Route(context.Background(), "email Alice")
	assert.Equal(t, SendEmail, intent)
	assert.Equal(t, "Sorry, email is not available in this assistant.", reply)
}

func TestHandlerFunc(t *testing.T) {
	h := HandlerFunc(func(_ context.Context, m string) string { return "<" + m + ">" })
	assert.Equal(t, "<x>", h.Respond(context.Background(), "x"))
}

func TestSession_DocumentMode(t *testing.T) {
	docs := &recorder{reply: "from docs"}
	generic := &recorder{reply: "chat"}
	s := New(map[Intent]Handler{Generic: generic, SearchDocuments: docs}, logging.Discard()).NewSession()
	ctx := context.Background()

	reply := s.Handle(ctx, "hello there")
	assert.Equal(t, Reply{Intent: Generic, Text: "chat"}, reply)

	reply = s.Handle(ctx, "search for Cassandra")
	assert.Equal(t, SearchDocuments, reply.Intent)
	assert.Equal(t, "from docs", reply.Text)
	assert.True(t, reply.DocumentMode)
	assert.Equal(t, EnterDocumentsNotice, reply.Notice)

	// Inside document mode keywords no longer route elsewhere.
	reply = s.Handle(ctx, "send me the weather")
	assert.Equal(t, SearchDocuments, reply.Intent)
	assert.True(t, s.DocumentMode())
	assert.Equal(t, []string{"search for Cassandra", "send me the weather"}, docs.messages)

	reply = s.Handle(ctx, "EXIT_RAG")
	assert.Equal(t, Reply{Notice: LeaveDocumentsNotice}, reply)
	assert.False(t, s.DocumentMode())

	reply = s.Handle(ctx, "how are you")
	assert.Equal(t, Generic, reply.Intent)
	assert.Equal(t, []string{"hello there", "how are you"}, generic.messages)
}

func TestSession_Exit(t *testing.T) {
	docs := &recorder{reply: "from docs"}
	s := New(map[Intent]Handler{SearchDocuments: docs}, logging.Discard()).NewSession()
	ctx := context.Background()

	s.Handle(ctx, "search")
	reply := s.Handle(ctx, " Exit ")
	assert.True(t, reply.Done)
	assert.Equal(t, GoodbyeNotice, reply.Notice)

	reply = s.Handle(ctx, "search again")
	assert.True(t, reply.Done)
	require.Len(t, docs.messages, 1)
}

func TestSession_BlankMessage(t *testing.T) {
	generic := &recorder{reply: "chat"}
	s := New(map[Intent]Handler{Generic: generic}, logging.Discard()).NewSession()

	assert.Equal(t, Reply{}, s.Handle(context.Background(), "   "))
	assert.Empty(t, generic.messages)
}

func TestSession_ExitRagOutsideDocumentMode(t *testing.T) {
	generic := &recorder{reply: "chat"}
	s := New(map[Intent]Handler{Generic: generic}, logging.Discard()).NewSession()

	reply := s.Handle(context.Background(), "exit_rag")
	assert.Equal(t, Generic, reply.Intent)
	assert.Equal(t, []string{"exit_rag"}, generic.messages)
}
