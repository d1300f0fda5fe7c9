package llm

import (
	"log"
	"os"
	"time"
)

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "VOYAGO_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewChatClient creates a chat client based on the VOYAGO_MODE environment
// variable. If VOYAGO_MODE=MOCK, returns a MockClient. If no API key is
// configured, returns nil and chat-dependent endpoints degrade to 503.
func NewChatClient(baseURL, apiKey string, timeout time.Duration) ChatClient {
	if os.Getenv(EnvMode) == ModeMock {
		log.Println("VOYAGO_MODE=MOCK detected, using mock chat client")
		return NewMockClient()
	}

	if apiKey == "" {
		log.Println("WARN: LLM_API_KEY not set, chat endpoints will be unavailable")
		return nil
	}

	return NewClient(baseURL, apiKey, timeout)
}
