package session

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Turn is one message of the conversation, either the user's or an agent's.
type Turn struct {
	Role      Role      `json:"role"`
	AgentName string    `json:"agent_name,omitempty"`
	Text      string    `json:"text"`
	At        time.Time `json:"at"`
}

// SessionState holds the per-conversation context: ordered turns and the
// remembered display name. A single fixed session id is used for the whole
// process lifetime, but all state is keyed by session id regardless.
type SessionState struct {
	SessionID   string `json:"session_id"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	Turns       []Turn `json:"turns,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewSessionState(sessionID, userID string, now time.Time) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		UserID:    userID,
		UpdatedAt: now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// RememberName stores the user's first name: the first whitespace-separated
// token of the raw extracted name. No further validation or normalization.
func (s *SessionState) RememberName(raw string) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 {
		return
	}
	s.DisplayName = fields[0]
}

func (s *SessionState) AppendUserTurn(text string, now time.Time) {
	s.Turns = append(s.Turns, Turn{Role: RoleUser, Text: text, At: now.UTC()})
	s.Touch(now)
}

func (s *SessionState) AppendAgentTurn(agentName, text string, now time.Time) {
	s.Turns = append(s.Turns, Turn{Role: RoleAgent, AgentName: agentName, Text: text, At: now.UTC()})
	s.Touch(now)
}

// History returns up to the last n turns, oldest first.
func (s *SessionState) History(n int) []Turn {
	if s == nil || n <= 0 || len(s.Turns) == 0 {
		return nil
	}
	if len(s.Turns) <= n {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-n:]
}

// FirstTurn reports whether the conversation has not started yet.
func (s *SessionState) FirstTurn() bool {
	return s == nil || len(s.Turns) == 0
}
