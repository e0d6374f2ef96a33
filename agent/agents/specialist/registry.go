package specialist

import (
	"context"
	"fmt"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
	llmx "github.com/aryansharma/shopassistant/agent/llm"
	promptx "github.com/aryansharma/shopassistant/agent/prompt"
)

type registryImpl struct {
	classifier  contractx.Classifier
	specialists map[contractx.Intent]contractx.Specialist
}

func (r *registryImpl) Classifier() contractx.Classifier {
	return r.classifier
}

func (r *registryImpl) Specialist(intent contractx.Intent) (contractx.Specialist, error) {
	spec, ok := r.specialists[intent]
	if !ok {
		return nil, fmt.Errorf("%w: no specialist for intent=%q", contractx.ErrValidation, intent)
	}
	return spec, nil
}

// NewRegistry builds the LLM-backed classifier and the seven specialists. The
// classifier may run on its own model; the specialists share one.
func NewRegistry(ctx context.Context, cfg llmx.Config) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()

	classifierModelCfg := cfg.OpenRouterFor(contractx.AgentOrchestrator)
	classifierModel, err := classifierModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create classifier model: %v", contractx.ErrModelInvoke, err)
	}
	specialistModelCfg := cfg.OpenRouterFor(contractx.AgentProductSearch)
	specialistModel, err := specialistModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create specialist model: %v", contractx.ErrModelInvoke, err)
	}

	classifier, err := newClassifier(ctx, classifierModel, prompts.Classifier)
	if err != nil {
		return nil, err
	}

	specs := map[contractx.Intent]string{
		contractx.IntentGreeting:      prompts.Greeting,
		contractx.IntentFarewell:      prompts.Farewell,
		contractx.IntentProductSearch: prompts.ProductSearch,
		contractx.IntentOrderStatus:   prompts.OrderStatus,
		contractx.IntentOrdering:      prompts.Ordering,
		contractx.IntentCancellation:  prompts.Cancellation,
		contractx.IntentListOrders:    prompts.ListOrders,
	}

	specialists := make(map[contractx.Intent]contractx.Specialist, len(specs))
	for intent, systemPrompt := range specs {
		agent, ok := contractx.AgentForIntent(intent)
		if !ok {
			return nil, fmt.Errorf("%w: intent=%q has no agent", contractx.ErrValidation, intent)
		}
		spec, err := newSpecialist(ctx, agent, specialistModel, systemPrompt)
		if err != nil {
			return nil, err
		}
		specialists[intent] = spec
	}

	return &registryImpl{
		classifier:  classifier,
		specialists: specialists,
	}, nil
}
