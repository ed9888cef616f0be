package tui

import (
	"context"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"assistant/internal/router"
)

// SessionPort is the TUI-facing subset of a chat session.
type SessionPort interface {
	Handle(ctx context.Context, message string) router.Reply
}

type replyMsg struct {
	question string
	reply    router.Reply
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	ctx        context.Context
	session    SessionPort
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	summary    string
	status     string
	pending    bool
	docMode    bool
	ready      bool
}

// New creates a new TUI model instance. summary is shown under the header.
func New(ctx context.Context, session SessionPort, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask something and press Enter (exit to quit)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		ctx:      ctx,
		session:  session,
		input:    ti,
		viewport: vp,
		summary:  summary,
		status:   "Ready. Mention a document or search to ask about your files.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and reply events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := transcriptBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + summary, status, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.refresh()
		return m, nil
	case replyMsg:
		m.pending = false
		m.docMode = msg.reply.DocumentMode
		if msg.reply.Notice != "" {
			m.transcript = append(m.transcript, noticeStyle.Render(msg.reply.Notice))
		}
		if msg.reply.Text != "" {
			text := msg.reply.Text
			if msg.reply.Intent == router.SearchDocuments {
				text = highlightBestSentence(text, msg.question)
			}
			m.transcript = append(m.transcript, assistantStyle.Render("Assistant: ")+text)
		}
		m.status = statusFor(msg.reply)
		m.refresh()
		if msg.reply.Done {
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.pending {
				return m, nil
			}
			m.input.SetValue("")
			m.pending = true
			m.status = "Thinking..."
			m.transcript = append(m.transcript, userStyle.Render("You: ")+q)
			m.refresh()
			return m, m.ask(q)
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(question string) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		return replyMsg{question: question, reply: session.Handle(ctx, question)}
	}
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := "Assistant"
	if m.docMode {
		title += " [documents]"
	}
	header := lipgloss.NewStyle().Bold(true).Render(title)
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	if len(m.transcript) == 0 {
		m.viewport.SetContent("No messages yet.")
		return
	}
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(strings.Join(m.transcript, "\n\n")))
	m.viewport.GotoBottom()
}

func statusFor(r router.Reply) string {
	switch {
	case r.Done:
		return "Bye."
	case r.DocumentMode:
		return "Document mode: type exit_rag to leave."
	default:
		return "Routed to " + r.Intent.String() + "."
	}
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	noticeStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	unicodeWordRe      = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe         = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// highlightBestSentence emphasises the sentence of text sharing the most
// words with query.
func highlightBestSentence(text, query string) string {
	qTokens := toTokenSet(query)
	spans := sentenceRe.FindAllStringIndex(text, -1)
	if len(qTokens) == 0 || len(spans) == 0 {
		return text
	}
	best, bestScore := spans[0], 0
	for _, sp := range spans {
		if score := tokenOverlapScore(qTokens, text[sp[0]:sp[1]]); score > bestScore {
			best, bestScore = sp, score
		}
	}
	if bestScore == 0 {
		return text
	}
	// Keep surrounding whitespace outside the styled span.
	sent := text[best[0]:best[1]]
	trimmed := strings.TrimSpace(sent)
	lead := strings.Index(sent, trimmed)
	start, end := best[0]+lead, best[0]+lead+len(trimmed)
	return text[:start] + highlightStyle.Render(trimmed) + text[end:]
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
