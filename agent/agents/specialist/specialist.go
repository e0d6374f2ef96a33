package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
	toolx "github.com/aryansharma/shopassistant/agent/tool"
)

type specialistImpl struct {
	agent          contractx.AgentName
	phrasingRunner compose.Runnable[map[string]any, specialistLLMOutput]
	toolRunner     compose.Runnable[map[string]any, *schema.Message]
	runtimeRunner  compose.Runnable[contractx.SpecialistRequest, contractx.SpecialistResponse]
	allowedTools   map[string]struct{}
}

type specialistLLMOutput struct {
	Message string `json:"message"`
}

func newSpecialist(
	ctx context.Context,
	agent contractx.AgentName,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
) (*specialistImpl, error) {
	phrasingRunner, err := compilePhrasingGraph(ctx, chatModel, systemPrompt, agent)
	if err != nil {
		return nil, fmt.Errorf("%w: compile phrasing graph: %v", contractx.ErrModelInvoke, err)
	}

	spec := &specialistImpl{
		agent:          agent,
		phrasingRunner: phrasingRunner,
	}

	tools := toolx.InfoForAgent(agent)
	if len(tools) > 0 {
		toolModel, err := chatModel.WithTools(tools)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, agent, err)
		}
		toolRunner, err := compileToolPlanningGraph(ctx, toolModel, systemPrompt, agent)
		if err != nil {
			return nil, fmt.Errorf("%w: compile tool planning graph: %v", contractx.ErrModelInvoke, err)
		}
		spec.toolRunner = toolRunner

		spec.allowedTools = make(map[string]struct{}, len(tools))
		for _, t := range tools {
			if t == nil || strings.TrimSpace(t.Name) == "" {
				continue
			}
			spec.allowedTools[t.Name] = struct{}{}
		}
	}

	runtimeRunner, err := compileSpecialistRuntimeGraph(ctx, agent, spec.toolRunner != nil, spec.runToolPlanning, spec.runPhrasing)
	if err != nil {
		return nil, fmt.Errorf("%w: compile specialist runtime graph: %v", contractx.ErrModelInvoke, err)
	}
	spec.runtimeRunner = runtimeRunner

	return spec, nil
}

func (s *specialistImpl) Run(ctx context.Context, req contractx.SpecialistRequest) (contractx.SpecialistResponse, error) {
	out, err := s.runtimeRunner.Invoke(ctx, req)
	if err != nil {
		return contractx.SpecialistResponse{}, err
	}
	return out, nil
}

func (s *specialistImpl) runPhrasing(ctx context.Context, req contractx.SpecialistRequest) (contractx.SpecialistResponse, error) {
	payload := map[string]any{
		"mode":         "respond",
		"user_message": req.UserMessage,
		"user_name":    req.UserName,
		"tool_results": req.ToolResults,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: marshal phrasing payload: %v", contractx.ErrValidation, err)
	}

	out, err := s.phrasingRunner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: phrasing invoke: %v", contractx.ErrModelInvoke, err)
	}

	message := strings.TrimSpace(out.Message)
	if message == "" {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: specialist message is empty", contractx.ErrSchemaViolation)
	}

	return contractx.SpecialistResponse{Message: message}, nil
}

func (s *specialistImpl) runToolPlanning(ctx context.Context, req contractx.SpecialistRequest) (contractx.SpecialistResponse, error) {
	payload := map[string]any{
		"mode":         "act",
		"user_message": req.UserMessage,
		"user_name":    req.UserName,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: marshal tool planning payload: %v", contractx.ErrValidation, err)
	}

	msg, err := s.toolRunner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: tool planning invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: empty tool planning response", contractx.ErrSchemaViolation)
	}

	toolRequests, err := toToolRequests(msg.ToolCalls)
	if err != nil {
		return contractx.SpecialistResponse{}, err
	}

	// No tool calls means the model asked a clarifying question instead.
	if len(toolRequests) == 0 {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			return contractx.SpecialistResponse{}, fmt.Errorf("%w: tool planning produced neither calls nor text", contractx.ErrSchemaViolation)
		}
		return contractx.SpecialistResponse{Message: content}, nil
	}

	for _, tr := range toolRequests {
		if _, ok := s.allowedTools[tr.Tool]; !ok {
			return contractx.SpecialistResponse{}, fmt.Errorf("%w: tool=%s is not allowed for agent=%s", contractx.ErrSchemaViolation, tr.Tool, s.agent)
		}
	}

	return contractx.SpecialistResponse{
		Message:      strings.TrimSpace(msg.Content),
		ToolRequests: toolRequests,
	}, nil
}

func toToolRequests(calls []schema.ToolCall) ([]contractx.ToolRequest, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	reqs := make([]contractx.ToolRequest, 0, len(calls))
	for _, call := range calls {
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
			}
		}

		reqs = append(reqs, contractx.ToolRequest{
			Tool: tool,
			Args: args,
		})
	}
	return reqs, nil
}
