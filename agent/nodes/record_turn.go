package orchestratornode

import (
	"fmt"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
)

// RecordTurn appends the user's message and the agent's reply to the session
// transcript. Runs before save so the persisted state always carries the
// completed exchange.
func RecordTurn(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}

	in.Session.AppendUserTurn(in.Text, in.Now)
	if in.Message != "" {
		in.Session.AppendAgentTurn(string(in.Agent), in.Message, in.Now)
	}
	return in, nil
}
