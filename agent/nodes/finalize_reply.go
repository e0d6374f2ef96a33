package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
)

// FinalizeReply seals the turn: the reply must be non-empty and the trace
// gets its final_response entry.
func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Message)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: agent=%s", contractx.ErrNoFinalResponse, in.Agent)
	}

	agent := in.Agent
	if agent == "" {
		agent = contractx.AgentOrchestrator
	}

	events := append(in.Events, contractx.NewFinalResponse(reply, agent))
	return GraphOutput{
		Reply:     reply,
		AgentName: agent,
		Events:    events,
	}, nil
}
