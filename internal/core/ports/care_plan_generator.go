package ports

import "context"

// CarePlanGenerator turns a system prompt and a user message into care plan text.
type CarePlanGenerator interface {
	Generate(ctx context.Context, systemPrompt, userMessage string) (string, error)
}
