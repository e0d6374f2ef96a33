package contract

import (
	"time"

	sessionx "github.com/aryansharma/shopassistant/agent/session"
)

// Intent is the routing category the classifier assigns to a user turn.
type Intent string

const (
	IntentGreeting      Intent = "greeting"
	IntentFarewell      Intent = "farewell"
	IntentProductSearch Intent = "product_search"
	IntentOrderStatus   Intent = "order_status"
	IntentOrdering      Intent = "ordering"
	IntentCancellation  Intent = "cancellation"
	IntentListOrders    Intent = "list_orders"
	IntentCapabilities  Intent = "capabilities"
	IntentUnroutable    Intent = "unroutable"
)

type AgentName string

const (
	AgentOrchestrator  AgentName = "shopping_orchestrator_agent"
	AgentGreeting      AgentName = "greeting_agent"
	AgentFarewell      AgentName = "farewell_agent"
	AgentProductSearch AgentName = "product_search_agent"
	AgentOrderStatus   AgentName = "order_status_agent"
	AgentOrdering      AgentName = "ordering_agent"
	AgentCancellation  AgentName = "order_cancellation_agent"
	AgentListOrders    AgentName = "list_orders_agent"
)

// AgentForIntent maps a delegable intent to the specialist that owns it.
// Direct-response intents (capabilities, unroutable) have no specialist.
func AgentForIntent(intent Intent) (AgentName, bool) {
	switch intent {
	case IntentGreeting:
		return AgentGreeting, true
	case IntentFarewell:
		return AgentFarewell, true
	case IntentProductSearch:
		return AgentProductSearch, true
	case IntentOrderStatus:
		return AgentOrderStatus, true
	case IntentOrdering:
		return AgentOrdering, true
	case IntentCancellation:
		return AgentCancellation, true
	case IntentListOrders:
		return AgentListOrders, true
	default:
		return "", false
	}
}

type ClassifierRequest struct {
	UserMessage string          `json:"user_message"`
	KnownName   string          `json:"known_name,omitempty"`
	History     []sessionx.Turn `json:"history,omitempty"`
	Now         time.Time       `json:"now"`
}

// ClassifierDecision is the opaque capability's verdict for one turn.
// UserName is set whenever the user stated their name in this message,
// regardless of the chosen intent.
type ClassifierDecision struct {
	Intent   Intent `json:"intent"`
	UserName string `json:"user_name,omitempty"`
}

type SpecialistRequest struct {
	UserMessage string       `json:"user_message"`
	UserName    string       `json:"user_name,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

type SpecialistResponse struct {
	Message      string        `json:"message"`
	ToolRequests []ToolRequest `json:"tool_requests,omitempty"`
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type EventType string

const (
	EventAgentTransfer       EventType = "agent_transfer"
	EventIntermediateMessage EventType = "intermediate_message"
	EventFinalResponse       EventType = "final_response"
	EventError               EventType = "error"
)

// Event is one entry of the delegation trace returned with every turn.
type Event struct {
	Type       EventType `json:"type"`
	From       AgentName `json:"from,omitempty"`
	To         AgentName `json:"to,omitempty"`
	Author     AgentName `json:"author,omitempty"`
	Text       string    `json:"text,omitempty"`
	AgentName  AgentName `json:"agent_name,omitempty"`
	Message    string    `json:"message,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
}

func NewAgentTransfer(from, to AgentName) Event {
	return Event{Type: EventAgentTransfer, From: from, To: to}
}

func NewIntermediateMessage(author AgentName, text string) Event {
	return Event{Type: EventIntermediateMessage, Author: author, Text: text}
}

func NewFinalResponse(text string, agent AgentName) Event {
	return Event{Type: EventFinalResponse, Text: text, AgentName: agent}
}

func NewErrorEvent(message string, statusCode int) Event {
	return Event{Type: EventError, Message: message, StatusCode: statusCode}
}
