package orchestratornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
	sessionx "github.com/aryansharma/shopassistant/agent/session"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

// GraphOutput is the completed turn: the reply, the agent that authored it,
// and the delegation trace accumulated along the way.
type GraphOutput struct {
	Reply     string
	AgentName contractx.AgentName
	Events    []contractx.Event
}

type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session  *sessionx.SessionState
	Decision contractx.ClassifierDecision

	Agent   contractx.AgentName
	Message string
	Events  []contractx.Event
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
