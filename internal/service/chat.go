package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/voyago/voyago/internal/adapter/llm"
	"github.com/voyago/voyago/internal/domain"
	"github.com/voyago/voyago/internal/summary"
)

const systemPrompt = "You are a helpful travel assistant. You can search flights, hotels, " +
	"hotel offers, hotel ratings and activities, and book hotel rooms using the available tools. " +
	"Use tool results to answer; if a tool reports an error, explain it to the user and suggest alternatives."

// Chat drives one turn of conversation: it appends the utterance to the
// session, exchanges rounds with the model executing any requested tool
// calls, and persists the final answer. Tool failures are surfaced to the
// model as error content; only model round-trip failures abort the turn.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (*domain.ChatResponse, error) {
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}
	if sessionID == "" {
		return nil, fmt.Errorf("sessionId is required")
	}
	if s.llmClient == nil {
		return nil, domain.ErrLLMUnavailable
	}

	// Serialize the read-modify-append cycle per session.
	unlock := s.sessionLocks.Lock(sessionID)
	defer unlock()

	session, err := s.store.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get/create session: %w", err)
	}

	userMsg := &domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		SessionID: session.SessionID,
		Role:      domain.RoleUser,
		Content:   message,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	history := s.projectHistory(session.Messages)
	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.ChatMessage{
		Role:    "user",
		Content: fmt.Sprintf("%s\n\n(Today's date is %s.)", message, time.Now().Format("2006-01-02")),
	})

	result, err := s.runToolLoop(ctx, messages)
	if err != nil {
		return nil, err
	}

	modelMsg := &domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		SessionID: session.SessionID,
		Role:      domain.RoleModel,
		Content:   result.Text,
		Data:      result.Data,
		DataType:  result.DataType,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateMessage(ctx, modelMsg); err != nil {
		return nil, fmt.Errorf("failed to save model message: %w", err)
	}

	// Title generation runs decoupled from the response path.
	go s.maybeGenerateTitle(session.SessionID)

	respType := "message"
	if len(result.Data) > 0 {
		respType = "results"
	}
	return &domain.ChatResponse{
		Type:      respType,
		Content:   result.Text,
		Data:      result.Data,
		DataType:  result.DataType,
		SessionID: session.SessionID,
		Title:     session.Title,
	}, nil
}

// projectHistory converts stored messages into model-format turns. Messages
// that carried structured data get a bounded digest appended inline so the
// model keeps situational awareness without the full payload re-entering
// context.
func (s *Service) projectHistory(stored []domain.Message) []llm.ChatMessage {
	out := make([]llm.ChatMessage, 0, len(stored))
	for _, msg := range stored {
		role := "user"
		if msg.Role == domain.RoleModel {
			role = "assistant"
		}
		content := msg.Content
		if len(msg.Data) > 0 && msg.DataType != "" {
			content = fmt.Sprintf("%s\n\n[Context: %s]", content, summary.Summarize(msg.DataType, msg.Data))
		}
		out = append(out, llm.ChatMessage{Role: role, Content: content})
	}
	return out
}

// runToolLoop exchanges rounds with the model until it yields plain text or
// the round cap is hit. The first successful UI-relevant tool result of the
// turn becomes the turn's structured payload.
func (s *Service) runToolLoop(ctx context.Context, messages []llm.ChatMessage) (*domain.ChatResult, error) {
	chatTools := s.registry.AsChatTools()

	var data json.RawMessage
	var dataType domain.DataType

	for round := 0; round < s.config.MaxToolRounds; round++ {
		resp, err := s.completeRound(ctx, messages, chatTools)
		if err != nil {
			return nil, fmt.Errorf("model round-trip failed: %w", err)
		}

		reply := resp.Choices[0].Message
		if reply == nil {
			return nil, fmt.Errorf("model returned an empty choice")
		}

		if len(reply.ToolCalls) == 0 {
			return &domain.ChatResult{Text: reply.Content, Data: data, DataType: dataType}, nil
		}

		messages = append(messages, *reply)

		results := s.dispatchToolCalls(ctx, reply.ToolCalls)
		for i, tc := range reply.ToolCalls {
			res := results[i]
			messages = append(messages, llm.ChatMessage{
				Role:       "tool",
				Name:       tc.Function.Name,
				ToolCallID: tc.ID,
				Content:    string(res.content),
			})
			if data == nil && res.ok && res.dataType != "" {
				data = res.content
				dataType = res.dataType
			}
		}
	}

	return nil, fmt.Errorf("%w (%d)", domain.ErrToolRoundsExceeded, s.config.MaxToolRounds)
}

// completeRound performs one model round-trip under the configured timeout.
func (s *Service) completeRound(ctx context.Context, messages []llm.ChatMessage, chatTools []llm.Tool) (*llm.ChatCompletionResponse, error) {
	roundCtx := ctx
	if s.config.LLMTimeout > 0 {
		var cancel context.CancelFunc
		roundCtx, cancel = context.WithTimeout(ctx, s.config.LLMTimeout)
		defer cancel()
	}

	return s.llmClient.CreateChatCompletion(roundCtx, &llm.ChatCompletionRequest{
		Model:    s.config.LLMModel,
		Messages: messages,
		Tools:    chatTools,
	})
}

// toolOutcome is the collected result of one dispatched tool call.
type toolOutcome struct {
	content  json.RawMessage
	dataType domain.DataType
	ok       bool
}

// dispatchToolCalls executes all calls of one model round and collects their
// results in request order. The round is a barrier: every call completes
// before the results are returned. Failures of any kind become error content
// for the model, never an error for the caller.
func (s *Service) dispatchToolCalls(ctx context.Context, calls []llm.ToolCall) []toolOutcome {
	results := make([]toolOutcome, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = s.executeToolCall(gctx, call)
			return nil
		})
	}
	// Goroutines never return errors; failures are captured per call.
	_ = g.Wait()

	return results
}

// executeToolCall runs a single tool call through the policy gate and the
// registry, converting every failure into structured error content.
func (s *Service) executeToolCall(ctx context.Context, call llm.ToolCall) toolOutcome {
	name := call.Function.Name
	args := json.RawMessage(call.Function.Arguments)
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	decision, reason, err := s.evaluatePolicy(ctx, name, args)
	if err != nil {
		log.Printf("WARN: policy evaluation failed for %s: %v", name, err)
		return toolOutcome{content: domain.ToolErrorContent("policy evaluation failed")}
	}
	if decision == "block" {
		if reason == "" {
			reason = "blocked by policy"
		}
		return toolOutcome{content: domain.ToolErrorContent(reason)}
	}

	tool, okTool := s.registry.Get(name)
	if !okTool {
		log.Printf("WARN: model requested unknown tool %q", name)
		return toolOutcome{content: domain.ToolErrorContent(fmt.Sprintf("unknown tool: %s", name))}
	}

	result, err := tool.Execute(ctx, args)
	if err != nil {
		log.Printf("WARN: tool %s failed: %v", name, err)
		return toolOutcome{content: domain.ToolErrorContent(err.Error())}
	}

	return toolOutcome{content: result, dataType: tool.DataType(), ok: true}
}

// evaluatePolicy runs the tool-call policy gate. Without an engine every
// call is allowed.
func (s *Service) evaluatePolicy(ctx context.Context, name string, args json.RawMessage) (string, string, error) {
	if s.policyEngine == nil {
		return "allow", "", nil
	}

	input := map[string]interface{}{
		"tool_name": name,
		"args":      map[string]interface{}{},
	}
	var argsMap map[string]interface{}
	if err := json.Unmarshal(args, &argsMap); err == nil {
		input["args"] = argsMap
	}

	return s.policyEngine.Evaluate(ctx, input)
}
