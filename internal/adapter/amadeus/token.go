package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// tokenSkew is the safety margin subtracted from a token's nominal expiry so
// a token is never used if it could expire mid-request.
const tokenSkew = 60 * time.Second

// TokenSource caches the inventory service bearer token and refreshes it via
// a client-credentials exchange when the skewed expiry has passed. Refreshes
// are single-flighted so concurrent callers racing past expiry trigger at
// most one exchange.
type TokenSource struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	retry        *RetryPolicy

	now func() time.Time

	group singleflight.Group

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenSource creates a TokenSource for the given auth endpoint and
// client credentials.
func NewTokenSource(baseURL, clientID, clientSecret string, timeout time.Duration) *TokenSource {
	return &TokenSource{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
		retry:        DefaultRetryPolicy(),
		now:          time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns the cached token while now < expiresAt - skew, refreshing it
// otherwise. A stale token is never returned past its skewed expiry.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	if ts.token != "" && ts.now().Before(ts.expiresAt) {
		token := ts.token
		ts.mu.Unlock()
		return token, nil
	}
	ts.mu.Unlock()

	result, err, _ := ts.group.Do("token", func() (interface{}, error) {
		// Re-check under the lock: another caller may have refreshed while
		// this one waited on the flight group.
		ts.mu.Lock()
		if ts.token != "" && ts.now().Before(ts.expiresAt) {
			token := ts.token
			ts.mu.Unlock()
			return token, nil
		}
		ts.mu.Unlock()

		var resp tokenResponse
		err := ts.retry.Execute(func() error {
			var exchangeErr error
			resp, exchangeErr = ts.exchange(ctx)
			return exchangeErr
		})
		if err != nil {
			return nil, fmt.Errorf("credential exchange failed: %w", err)
		}

		ts.mu.Lock()
		ts.token = resp.AccessToken
		ts.expiresAt = ts.now().Add(time.Duration(resp.ExpiresIn)*time.Second - tokenSkew)
		ts.mu.Unlock()

		return resp.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// exchange performs the client-credentials grant against the auth endpoint.
func (ts *TokenSource) exchange(ctx context.Context) (tokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", ts.clientID)
	form.Set("client_secret", ts.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		ts.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return tokenResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return tokenResponse{}, fmt.Errorf("auth error [%d]: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return tokenResponse{}, fmt.Errorf("failed to unmarshal token response: %w", err)
	}
	if tr.AccessToken == "" {
		return tokenResponse{}, fmt.Errorf("auth response contained no access token")
	}

	return tr, nil
}
