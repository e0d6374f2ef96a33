package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
)

const capabilitiesList = "product search, checking order status, placing orders, listing all orders, and cancelling orders"

// classifierHistoryWindow caps how much conversation the classifier sees.
const classifierHistoryWindow = 10

// ClassifyIntent asks the classifier for the turn's intent and applies the
// conversation-opening rules. The very first turn always gets the structural
// introduction regardless of intent; a classifier fault downgrades the turn
// to unroutable instead of failing it.
func ClassifyIntent(
	ctx context.Context,
	in *GraphState,
	classifier contractx.Classifier,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}

	decision, err := classifier.Classify(ctx, contractx.ClassifierRequest{
		UserMessage: in.Text,
		KnownName:   in.Session.DisplayName,
		History:     in.Session.History(classifierHistoryWindow),
		Now:         in.Now,
	})
	if err != nil {
		log.Warn().Err(err).Str("session_id", in.SessionID).Msg("classifier failed, treating turn as unroutable")
		decision = contractx.ClassifierDecision{Intent: contractx.IntentUnroutable}
	}

	if decision.UserName != "" {
		in.Session.RememberName(decision.UserName)
	}
	in.Decision = decision

	name := in.Session.DisplayName
	switch {
	case in.Session.FirstTurn():
		in.Agent = contractx.AgentOrchestrator
		if name != "" {
			in.Message = fmt.Sprintf(
				"Nice to meet you, %s! I'm the Shopping Assistant. I can help with %s. How can I assist you today?",
				name, capabilitiesList)
		} else {
			in.Message = fmt.Sprintf(
				"Hello! I'm the Shopping Assistant. I can help with %s. What is your name?",
				capabilitiesList)
		}
	case decision.Intent == contractx.IntentCapabilities:
		in.Agent = contractx.AgentOrchestrator
		if name != "" {
			in.Message = fmt.Sprintf("%s, as I mentioned, I can help with %s.", name, capabilitiesList)
		} else {
			in.Message = fmt.Sprintf("As I mentioned, I can help with %s.", capabilitiesList)
		}
	case decision.Intent == contractx.IntentUnroutable:
		in.Agent = contractx.AgentOrchestrator
		if decision.UserName != "" {
			in.Message = fmt.Sprintf("Nice to meet you, %s! How can I help you today?", name)
		} else if name != "" {
			in.Message = fmt.Sprintf(
				"%s, I can only help with %s. Please let me know how I can assist you with these tasks.",
				name, capabilitiesList)
		} else {
			in.Message = fmt.Sprintf(
				"I can only help with %s. Please let me know how I can assist you with these tasks.",
				capabilitiesList)
		}
	}

	return in, nil
}
