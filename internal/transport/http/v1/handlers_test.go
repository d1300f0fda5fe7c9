package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/voyago/voyago/internal/adapter/llm"
	"github.com/voyago/voyago/internal/config"
	"github.com/voyago/voyago/internal/service"
	"github.com/voyago/voyago/internal/tools"
	"github.com/voyago/voyago/tests/helpers"
)

// scriptedChat replays a fixed sequence of completions.
type scriptedChat struct {
	mu        sync.Mutex
	responses []*llm.ChatCompletionResponse
}

func (c *scriptedChat) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.responses) == 0 {
		return nil, fmt.Errorf("script exhausted")
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func scripted(texts ...string) *scriptedChat {
	c := &scriptedChat{}
	for _, text := range texts {
		c.responses = append(c.responses, &llm.ChatCompletionResponse{
			Choices: []llm.Choice{{Message: &llm.ChatMessage{Role: "assistant", Content: text}}},
		})
	}
	return c
}

func newTestHandler(t *testing.T, chat llm.ChatClient) *Handler {
	t.Helper()

	db := helpers.NewTestSQLiteStore(t)
	cfg := &config.Config{
		LLMModel:      "test-model",
		LLMTimeout:    time.Second,
		MaxToolRounds: 8,
	}
	svc := service.New(db, chat, tools.NewRegistry(), nil, cfg)
	return NewHandler(svc)
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(t, nil)
	c, rec := newJSONContext(http.MethodGet, "/health", "")

	err := handler.Health(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestCreateAndGetSessionHandler(t *testing.T) {
	handler := newTestHandler(t, nil)

	c, rec := newJSONContext(http.MethodPost, "/sessions", "")
	assert.NoError(t, handler.CreateSession(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, strings.HasPrefix(created.ID, "sess_"))
	assert.Equal(t, "New Conversation", created.Title)

	c, rec = newJSONContext(http.MethodGet, "/sessions/"+created.ID, "")
	c.SetPath("/sessions/:id")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	assert.NoError(t, handler.GetSession(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), created.ID)
}

func TestGetSessionNotFoundHandler(t *testing.T) {
	handler := newTestHandler(t, nil)

	c, rec := newJSONContext(http.MethodGet, "/sessions/sess_missing", "")
	c.SetPath("/sessions/:id")
	c.SetParamNames("id")
	c.SetParamValues("sess_missing")

	assert.NoError(t, handler.GetSession(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "session not found")
}

func TestListSessionsHandler(t *testing.T) {
	handler := newTestHandler(t, nil)

	for i := 0; i < 2; i++ {
		c, _ := newJSONContext(http.MethodPost, "/sessions", "")
		assert.NoError(t, handler.CreateSession(c))
	}

	c, rec := newJSONContext(http.MethodGet, "/sessions", "")
	assert.NoError(t, handler.ListSessions(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var sessions []json.RawMessage
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	assert.Len(t, sessions, 2)
}

func TestChatHandlerValidation(t *testing.T) {
	handler := newTestHandler(t, scripted("unused"))

	cases := []struct {
		name string
		body string
		want string
	}{
		{"malformed body", `not json`, "invalid request body"},
		{"missing message", `{"sessionId":"sess_1"}`, "message is required"},
		{"missing session id", `{"message":"Hello"}`, "sessionId is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newJSONContext(http.MethodPost, "/chat", tc.body)

			assert.NoError(t, handler.Chat(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestChatHandlerUnavailable(t *testing.T) {
	handler := newTestHandler(t, nil)

	c, rec := newJSONContext(http.MethodPost, "/chat", `{"message":"Hello","sessionId":"sess_1"}`)

	assert.NoError(t, handler.Chat(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "chat backend not configured")
}

func TestChatHandlerSuccess(t *testing.T) {
	handler := newTestHandler(t, scripted("Where would you like to travel?"))

	c, rec := newJSONContext(http.MethodPost, "/chat", `{"message":"Hello","sessionId":"sess_1"}`)

	assert.NoError(t, handler.Chat(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Type      string `json:"type"`
		Content   string `json:"content"`
		SessionID string `json:"sessionId"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "message", resp.Type)
	assert.Equal(t, "Where would you like to travel?", resp.Content)
	assert.Equal(t, "sess_1", resp.SessionID)
}

func TestChatHandlerBackendFailure(t *testing.T) {
	// Empty script: the first round fails.
	handler := newTestHandler(t, &scriptedChat{})

	c, rec := newJSONContext(http.MethodPost, "/chat", `{"message":"Hello","sessionId":"sess_1"}`)

	assert.NoError(t, handler.Chat(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to process message")
}

func TestGenerateTitleHandler(t *testing.T) {
	handler := newTestHandler(t, scripted("Rome Getaway"))

	body := `{"history":[{"role":"user","content":"Plan three days in Rome"},{"role":"model","content":"Here is a plan."}]}`
	c, rec := newJSONContext(http.MethodPost, "/generate-title", body)

	assert.NoError(t, handler.GenerateTitle(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rome Getaway")
}

func TestGenerateTitleHandlerFailureYieldsNull(t *testing.T) {
	handler := newTestHandler(t, &scriptedChat{})

	body := `{"history":[{"role":"user","content":"Hi"}]}`
	c, rec := newJSONContext(http.MethodPost, "/generate-title", body)

	assert.NoError(t, handler.GenerateTitle(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp["title"])
}

func TestGenerateTitleHandlerUnavailable(t *testing.T) {
	handler := newTestHandler(t, nil)

	c, rec := newJSONContext(http.MethodPost, "/generate-title", `{"history":[]}`)

	assert.NoError(t, handler.GenerateTitle(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
