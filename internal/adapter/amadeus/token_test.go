package amadeus

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newAuthServer(t *testing.T, calls *int32, expiresIn int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/security/oauth2/token" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.Form.Get("grant_type") != "client_credentials" {
			t.Errorf("unexpected grant_type: %s", r.Form.Get("grant_type"))
		}
		n := atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"tok-%d","token_type":"Bearer","expires_in":%d}`, n, expiresIn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenReuseWithinWindow(t *testing.T) {
	ctx := context.Background()
	var calls int32
	srv := newAuthServer(t, &calls, 1799)

	ts := NewTokenSource(srv.URL, "id", "secret", time.Second)

	tok1, err := ts.Token(ctx)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	tok2, err := ts.Token(ctx)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}

	if tok1 != tok2 {
		t.Fatalf("expected cached token, got %q then %q", tok1, tok2)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 exchange, got %d", got)
	}
}

func TestTokenRefreshAfterSkewedExpiry(t *testing.T) {
	ctx := context.Background()
	var calls int32
	// 120s lifetime minus the 60s skew leaves a 60s usable window.
	srv := newAuthServer(t, &calls, 120)

	ts := NewTokenSource(srv.URL, "id", "secret", time.Second)
	base := time.Now()
	current := base
	ts.now = func() time.Time { return current }

	tok1, err := ts.Token(ctx)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}

	// Still inside the window: no refresh.
	current = base.Add(59 * time.Second)
	tok2, err := ts.Token(ctx)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok1 != tok2 || atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected reuse at 59s, got %q -> %q after %d exchanges", tok1, tok2, calls)
	}

	// Past expiresAt - skew: exactly one refresh.
	current = base.Add(61 * time.Second)
	tok3, err := ts.Token(ctx)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok3 == tok1 {
		t.Fatalf("expected a new token after expiry, got %q again", tok3)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 exchanges, got %d", got)
	}
}

func TestTokenRefreshSingleFlight(t *testing.T) {
	ctx := context.Background()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(50 * time.Millisecond)
		fmt.Fprint(w, `{"access_token":"tok","token_type":"Bearer","expires_in":1799}`)
	}))
	defer srv.Close()

	ts := NewTokenSource(srv.URL, "id", "secret", time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ts.Token(ctx); err != nil {
				t.Errorf("Token failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected single-flighted refresh, got %d exchanges", got)
	}
}

func TestTokenExchangeFailure(t *testing.T) {
	ctx := context.Background()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"invalid_client"}`)
	}))
	defer srv.Close()

	ts := NewTokenSource(srv.URL, "id", "secret", time.Second)

	if _, err := ts.Token(ctx); err == nil {
		t.Fatal("expected error from failed exchange")
	}
	// Auth rejections are permanent; no retries.
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 exchange attempt, got %d", got)
	}
}
