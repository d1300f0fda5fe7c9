package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/voyago/voyago/internal/adapter/llm"
	"github.com/voyago/voyago/internal/domain"
)

// titlePromptMessages bounds the title prompt to the first stored messages.
const titlePromptMessages = 4

// maybeGenerateTitle condenses the opening of a session into a short label.
// It runs detached from the request path: failures are logged and the title
// is left unchanged. The store guard makes the update idempotent, so racing
// a later turn's regeneration attempt is harmless.
func (s *Service) maybeGenerateTitle(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil || session == nil {
		log.Printf("WARN: title generation: failed to load session %s: %v", sessionID, err)
		return
	}
	if session.Title != domain.DefaultSessionTitle || len(session.Messages) < 2 {
		return
	}

	title, err := s.GenerateTitle(ctx, session.Messages)
	if err != nil {
		log.Printf("WARN: title generation failed for %s: %v", sessionID, err)
		return
	}
	if title == "" {
		return
	}

	if _, err := s.store.UpdateSessionTitle(ctx, sessionID, title); err != nil {
		log.Printf("WARN: failed to store title for %s: %v", sessionID, err)
	}
}

// GenerateTitle produces a short label for a conversation from its first few
// messages. Stateless: it reads only the given history.
func (s *Service) GenerateTitle(ctx context.Context, history []domain.Message) (string, error) {
	if s.llmClient == nil {
		return "", domain.ErrLLMUnavailable
	}
	if len(history) == 0 {
		return "", fmt.Errorf("history is empty")
	}

	if len(history) > titlePromptMessages {
		history = history[:titlePromptMessages]
	}

	var b strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
	}

	resp, err := s.llmClient.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model: s.config.LLMModel,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: "Generate a short title (at most six words) for the following conversation. Reply with the title only."},
			{Role: "user", Content: b.String()},
		},
	})
	if err != nil {
		return "", err
	}

	reply := resp.Choices[0].Message
	if reply == nil {
		return "", fmt.Errorf("model returned an empty choice")
	}

	title := strings.TrimSpace(strings.Trim(strings.TrimSpace(reply.Content), `"`))
	return title, nil
}
