package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
	sessionx "github.com/aryansharma/shopassistant/agent/session"
)

// historyWindow caps how many recent turns the classifier sees.
const historyWindow = 10

type classifierImpl struct {
	runner compose.Runnable[map[string]any, classifierLLMOutput]
}

type classifierLLMOutput struct {
	Intent   string `json:"intent"`
	UserName string `json:"user_name,omitempty"`
}

func newClassifier(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*classifierImpl, error) {
	runner, err := compileClassifierGraph(ctx, chatModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: compile classifier graph: %v", contractx.ErrModelInvoke, err)
	}
	return &classifierImpl{runner: runner}, nil
}

func (c *classifierImpl) Classify(ctx context.Context, req contractx.ClassifierRequest) (contractx.ClassifierDecision, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return contractx.ClassifierDecision{}, fmt.Errorf("%w: user message is required", contractx.ErrValidation)
	}

	payload := map[string]any{
		"user_message": req.UserMessage,
		"known_name":   req.KnownName,
		"history":      summarizeHistory(req.History),
		"now":          req.Now,
	}
	inputBytes, err := json.Marshal(payload)
	if err != nil {
		return contractx.ClassifierDecision{}, fmt.Errorf("%w: marshal classifier payload: %v", contractx.ErrValidation, err)
	}

	out, err := c.runner.Invoke(ctx, map[string]any{
		"input": string(inputBytes),
	})
	if err != nil {
		return contractx.ClassifierDecision{}, fmt.Errorf("%w: classifier invoke: %v", contractx.ErrModelInvoke, err)
	}

	intent, ok := parseIntent(out.Intent)
	if !ok {
		return contractx.ClassifierDecision{}, fmt.Errorf("%w: unsupported intent=%q", contractx.ErrSchemaViolation, out.Intent)
	}

	return contractx.ClassifierDecision{
		Intent:   intent,
		UserName: strings.TrimSpace(out.UserName),
	}, nil
}

func parseIntent(raw string) (contractx.Intent, bool) {
	intent := contractx.Intent(strings.ToLower(strings.TrimSpace(raw)))
	switch intent {
	case contractx.IntentGreeting,
		contractx.IntentFarewell,
		contractx.IntentProductSearch,
		contractx.IntentOrderStatus,
		contractx.IntentOrdering,
		contractx.IntentCancellation,
		contractx.IntentListOrders,
		contractx.IntentCapabilities,
		contractx.IntentUnroutable:
		return intent, true
	default:
		return "", false
	}
}

func summarizeHistory(turns []sessionx.Turn) []map[string]any {
	if len(turns) > historyWindow {
		turns = turns[len(turns)-historyWindow:]
	}
	out := make([]map[string]any, 0, len(turns))
	for _, turn := range turns {
		out = append(out, map[string]any{
			"role":  turn.Role,
			"agent": turn.AgentName,
			"text":  turn.Text,
		})
	}
	return out
}
