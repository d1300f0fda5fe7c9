package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/voyago/voyago/internal/domain"
)

// CreateSession creates and persists a new empty session.
func (s *Service) CreateSession(ctx context.Context) (*domain.Session, error) {
	session := domain.NewSession("sess_" + uuid.New().String()[:8])
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession returns the full session or ErrNotFound.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// ListSessions returns session summaries, newest first.
func (s *Service) ListSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	return s.store.ListSessions(ctx)
}
