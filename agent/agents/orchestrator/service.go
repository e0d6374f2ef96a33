package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
	nodex "github.com/aryansharma/shopassistant/agent/nodes"
	sessionx "github.com/aryansharma/shopassistant/agent/session"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

// A single fixed session and user, matching the one-conversation deployment
// model of the web UI.
const (
	DefaultSessionID = "fastapi_session_abc"
	DefaultUserID    = "Aryan Sharma"
)

type Config struct {
	SessionID string
	UserID    string
}

// TurnResult is one completed conversational turn.
type TurnResult struct {
	Response  string
	AgentName contractx.AgentName
	Events    []contractx.Event
}

// Orchestrator runs the per-turn pipeline: validate, load session, classify,
// dispatch to a specialist, record and save, finalize.
type Orchestrator struct {
	sessions sessionx.Store
	models   contractx.Registry
	tools    contractx.ToolGateway

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	sessionID string
	userID    string

	now func() time.Time
}

func New(
	sessions sessionx.Store,
	models contractx.Registry,
	tools contractx.ToolGateway,
	cfg Config,
) (*Orchestrator, error) {
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if models == nil {
		return nil, errors.New("model registry is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}

	sessionID := strings.TrimSpace(cfg.SessionID)
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	userID := strings.TrimSpace(cfg.UserID)
	if userID == "" {
		userID = DefaultUserID
	}

	o := &Orchestrator{
		sessions:  sessions,
		models:    models,
		tools:     tools,
		sessionID: sessionID,
		userID:    userID,
		now:       time.Now,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

func (o *Orchestrator) HandleMessage(ctx context.Context, text string) (TurnResult, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: o.sessionID,
		Text:      text,
	})
	if err != nil {
		return TurnResult{}, err
	}
	return TurnResult{
		Response:  out.Reply,
		AgentName: out.AgentName,
		Events:    out.Events,
	}, nil
}
