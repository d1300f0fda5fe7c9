// Package service implements the tool-call orchestration core.
package service

import (
	"github.com/voyago/voyago/internal/adapter/llm"
	"github.com/voyago/voyago/internal/config"
	store "github.com/voyago/voyago/internal/repository"
	"github.com/voyago/voyago/internal/tools"
	"github.com/voyago/voyago/policy"
)

// Service wires the orchestration loop to its collaborators. All fields are
// set at construction and read-only afterwards.
type Service struct {
	store        store.Store
	llmClient    llm.ChatClient
	registry     *tools.Registry
	policyEngine *policy.Engine
	config       *config.Config

	sessionLocks *keyedMutex
}

// New creates the service. llmClient may be nil when no chat backend is
// configured; chat-dependent operations then fail with ErrLLMUnavailable.
func New(store store.Store, llmClient llm.ChatClient, registry *tools.Registry, policyEngine *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:        store,
		llmClient:    llmClient,
		registry:     registry,
		policyEngine: policyEngine,
		config:       cfg,
		sessionLocks: newKeyedMutex(),
	}
}

// ChatAvailable reports whether the chat backend is configured.
func (s *Service) ChatAvailable() bool {
	return s.llmClient != nil
}
