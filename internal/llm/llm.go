// Package llm adapts a text-completion backend to the two prompts the
// assistant needs: answering from retrieved context, and plain chat.
package llm

import (
	"context"
	"fmt"
	"strings"

	"assistant/internal/domain"
)

// Completer sends a fully formatted prompt to a language model.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// NotUnderstood is what both prompts tell the model to say when it is unsure.
const NotUnderstood = "I don't understand. Could you please try again?"

const answerTemplate = `You are a helpful assistant. Answer the question below using the information provided in the context below.
If you are not sure what something means in the question, always reply with "%s"

Question: %s
Context: %s
`

const chatTemplate = `You are an assistant. Respond to the user's message as directly and concisely as possible.
If you are not sure what something means in the question, always reply with "%s"

User message: %s
`

var _ domain.Generator = (*Generator)(nil)

// Generator answers a question from retrieved context.
type Generator struct {
	completer Completer
}

func NewGenerator(c Completer) *Generator { return &Generator{completer: c} }

// AnswerPrompt renders the question-answering prompt.
func AnswerPrompt(question, retrieved string) string {
	return fmt.Sprintf(answerTemplate, NotUnderstood, question, retrieved)
}

// Generate returns the model's response verbatim. Errors wrap
// domain.ErrGenerationFailure and are never retried here.
func (g *Generator) Generate(ctx context.Context, question, retrieved string) (string, error) {
	out, err := g.completer.Complete(ctx, AnswerPrompt(question, retrieved))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrGenerationFailure, g.completer.Name(), err)
	}
	return out, nil
}

// Chat is the generic conversation handler: the message goes straight to the
// model with no retrieval.
type Chat struct {
	completer Completer
	apology   string
}

func NewChat(c Completer) *Chat {
	return &Chat{completer: c, apology: "I'm sorry, I couldn't reach the language model. Please try again later."}
}

// Respond never fails; model errors become an apology.
func (c *Chat) Respond(ctx context.Context, message string) string {
	out, err := c.completer.Complete(ctx, fmt.Sprintf(chatTemplate, NotUnderstood, message))
	if err != nil {
		return c.apology
	}
	return strings.TrimSpace(out)
}

// Extractive is a domain.Generator that needs no model: it answers with the
// retrieved context itself. It backs the "none" generator type.
type Extractive struct{}

var _ domain.Generator = Extractive{}

func (Extractive) Generate(ctx context.Context, _, retrieved string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err)
	}
	return "From the documents:\n" + retrieved, nil
}
