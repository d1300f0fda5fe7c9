// Package tools defines the executable travel tools and their registry.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/voyago/voyago/internal/adapter/llm"
	"github.com/voyago/voyago/internal/domain"
)

// Tool defines the interface for an executable tool. DataType is non-empty
// for tools whose results are surfaced to the UI as structured payloads.
type Tool interface {
	Name() string
	Description() string
	Parameters() json.RawMessage
	DataType() domain.DataType
	Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error)
}

// Registry stores tools keyed by name. It is populated at startup and
// read-only afterwards.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry. Empty or duplicate names are
// rejected so misconfiguration fails at startup, not at dispatch time.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return fmt.Errorf("tool is required")
	}
	if t.Name() == "" {
		return fmt.Errorf("tool name is required")
	}
	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("tool already registered: %s", t.Name())
	}
	r.tools[t.Name()] = t
	return nil
}

// MustRegister adds a tool or panics.
func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// All returns all registered tools, sorted by name so the declared tool set
// sent to the model is stable.
func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// AsChatTools converts registered tools to the chat backend format.
func (r *Registry) AsChatTools() []llm.Tool {
	all := r.All()
	out := make([]llm.Tool, 0, len(all))
	for _, t := range all {
		out = append(out, llm.Tool{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return out
}
