package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/voyago/voyago/internal/domain"
)

func TestCreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	session, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if !strings.HasPrefix(session.SessionID, "sess_") {
		t.Errorf("unexpected session id: %q", session.SessionID)
	}
	if session.Title != domain.DefaultSessionTitle {
		t.Errorf("expected default title, got %q", session.Title)
	}

	got, err := svc.GetSession(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.SessionID != session.SessionID {
		t.Errorf("expected %q, got %q", session.SessionID, got.SessionID)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	_, err := svc.GetSession(ctx, "sess_missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateSession(ctx); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
}
