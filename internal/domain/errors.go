package domain

import "errors"

var (
	// ErrNotFound indicates a session lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrLLMUnavailable indicates the language-model connector is not
	// configured; chat-dependent endpoints degrade to 503.
	ErrLLMUnavailable = errors.New("llm client not configured")

	// ErrToolRoundsExceeded indicates the model kept requesting tools past
	// the configured round cap and the turn was failed deterministically.
	ErrToolRoundsExceeded = errors.New("max tool rounds exceeded")
)
