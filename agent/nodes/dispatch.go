package orchestratornode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
)

// Dispatch hands the turn to the specialist owning the classified intent.
// The specialist may answer directly or request tools; tool requests are
// executed through the gateway and fed back for a second, phrasing run.
func Dispatch(
	ctx context.Context,
	in *GraphState,
	models contractx.Registry,
	tools contractx.ToolGateway,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}
	// Direct replies (first turn, capabilities, unroutable) skip delegation.
	if in.Message != "" {
		return in, nil
	}

	agent, ok := contractx.AgentForIntent(in.Decision.Intent)
	if !ok {
		return nil, fmt.Errorf("%w: intent=%q is not delegable", contractx.ErrValidation, in.Decision.Intent)
	}
	in.Agent = agent
	in.Events = append(in.Events, contractx.NewAgentTransfer(contractx.AgentOrchestrator, agent))

	spec, err := models.Specialist(in.Decision.Intent)
	if err != nil {
		return nil, err
	}

	req := contractx.SpecialistRequest{
		UserMessage: in.Text,
		UserName:    in.Session.DisplayName,
	}
	resp, err := spec.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(resp.ToolRequests) == 0 {
		in.Message = strings.TrimSpace(resp.Message)
		return in, nil
	}

	if text := strings.TrimSpace(resp.Message); text != "" {
		in.Events = append(in.Events, contractx.NewIntermediateMessage(agent, text))
	}

	results, err := tools.Execute(ctx, agent, resp.ToolRequests)
	if err != nil {
		return nil, err
	}

	req.ToolResults = results
	final, err := spec.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(final.ToolRequests) > 0 {
		return nil, fmt.Errorf("%w: specialist requested tools after tool results", contractx.ErrSchemaViolation)
	}

	in.Message = strings.TrimSpace(final.Message)
	return in, nil
}
