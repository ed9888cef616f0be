package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant/internal/router"
)

type fakeSession struct {
	reply    router.Reply
	messages []string
}

func (f *fakeSession) Handle(_ context.Context, message string) router.Reply {
	f.messages = append(f.messages, message)
	return f.reply
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func TestView_BeforeSizing(t *testing.T) {
	m := New(context.Background(), &fakeSession{}, "summary")
	assert.Equal(t, "Loading...", m.View())
}

func TestEnter_SendsMessageAndRendersReply(t *testing.T) {
	sess := &fakeSession{reply: router.Reply{
		Intent:       router.SearchDocuments,
		Text:         "Cassandra is a database.",
		DocumentMode: true,
		Notice:       router.EnterDocumentsNotice,
	}}
	m := sized(t, New(context.Background(), sess, "Corpus about databases."))
	m.input.SetValue("search Cassandra")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.pending)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, "Thinking...", m.status)

	msg := cmd()
	require.IsType(t, replyMsg{}, msg)
	assert.Equal(t, []string{"search Cassandra"}, sess.messages)

	next, cmd = m.Update(msg)
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.pending)
	assert.True(t, m.docMode)
	require.Len(t, m.transcript, 3)
	assert.Contains(t, m.transcript[2], "Cassandra is a database.")
	view := m.View()
	assert.Contains(t, view, "[documents]")
	assert.Contains(t, view, "Corpus about databases.")
}

func TestEnter_IgnoredWhileBlankOrPending(t *testing.T) {
	m := sized(t, New(context.Background(), &fakeSession{}, ""))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	m.pending = true
	m.input.SetValue("hello")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestReply_DoneQuits(t *testing.T) {
	m := sized(t, New(context.Background(), &fakeSession{}, ""))
	_, cmd := m.Update(replyMsg{reply: router.Reply{Done: true, Notice: router.GoodbyeNotice}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCtrlCQuits(t *testing.T) {
	m := New(context.Background(), &fakeSession{}, "")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHighlightBestSentence(t *testing.T) {
	text := "Bananas are yellow. Cassandra replicates data. Trailing words"
	out := highlightBestSentence(text, "how does cassandra replicate data")
	assert.True(t, strings.HasPrefix(out, "Bananas are yellow. "))
	assert.True(t, strings.HasSuffix(out, " Trailing words"))
	assert.Contains(t, out, "Cassandra replicates data.")

	assert.Equal(t, text, highlightBestSentence(text, "unrelated"))
	assert.Equal(t, text, highlightBestSentence(text, "?!"))
}
