// Package domain defines the core domain models for the travel assistant.
package domain

import (
	"encoding/json"
	"time"
)

// DefaultSessionTitle is the placeholder title assigned to new sessions
// until the title generator produces a real one.
const DefaultSessionTitle = "New Conversation"

// Role identifies the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// DataType identifies the kind of structured payload attached to a message.
type DataType string

const (
	DataTypeFlights    DataType = "flights"
	DataTypeHotels     DataType = "hotels"
	DataTypeActivities DataType = "activities"
	DataTypeOffers     DataType = "offers"
)

// Session represents a conversation session.
type Session struct {
	SessionID string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `json:"messages"`
}

// NewSession builds an empty session with the default placeholder title.
func NewSession(id string) *Session {
	return &Session{
		SessionID: id,
		Title:     DefaultSessionTitle,
		CreatedAt: time.Now(),
		Messages:  []Message{},
	}
}

// SessionSummary is the listing view of a session, without messages.
type SessionSummary struct {
	SessionID string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message represents a single message in a session. Data and DataType are
// present only on model turns that surfaced tool results to the UI.
type Message struct {
	MessageID string          `json:"-"`
	SessionID string          `json:"-"`
	Role      Role            `json:"role"`
	Content   string          `json:"content"`
	Data      json.RawMessage `json:"data,omitempty"`
	DataType  DataType        `json:"dataType,omitempty"`
	CreatedAt time.Time       `json:"-"`
}

// ToolCall is a structured request emitted by the model to invoke a named
// tool. It is not persisted; only its result is folded into the next message.
type ToolCall struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// ToolResult carries a tool's outcome back to the model. Errors are modeled
// as data so the model can react to them conversationally.
type ToolResult struct {
	CallID  string          `json:"-"`
	Name    string          `json:"name"`
	Content json.RawMessage `json:"content"`
}

// ToolErrorContent builds the ToolResult content for a failed call.
func ToolErrorContent(msg string) json.RawMessage {
	data, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		return json.RawMessage(`{"error":"tool execution failed"}`)
	}
	return data
}

// ChatRequest is the inbound body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// ChatResponse is the outbound body of POST /chat.
type ChatResponse struct {
	Type      string          `json:"type"` // "results" or "message"
	Content   string          `json:"content"`
	Data      json.RawMessage `json:"data,omitempty"`
	DataType  DataType        `json:"dataType,omitempty"`
	SessionID string          `json:"sessionId"`
	Title     string          `json:"title"`
}

// ChatResult is the outcome of one orchestrated turn.
type ChatResult struct {
	Text     string
	Data     json.RawMessage
	DataType DataType
}
