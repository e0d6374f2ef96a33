package contract

import "context"

// Classifier is the opaque natural-language capability that maps the latest
// user message plus conversation history to exactly one intent. Extraction
// mistakes are an external-capability failure mode, not a routing bug.
type Classifier interface {
	Classify(ctx context.Context, req ClassifierRequest) (ClassifierDecision, error)
}

// Specialist handles one conversational intent. A first Run may return tool
// requests (argument extraction); a second Run with ToolResults set must
// return the phrased reply.
type Specialist interface {
	Run(ctx context.Context, req SpecialistRequest) (SpecialistResponse, error)
}

type Registry interface {
	Classifier() Classifier
	Specialist(intent Intent) (Specialist, error)
}

type ToolGateway interface {
	Execute(ctx context.Context, agent AgentName, reqs []ToolRequest) ([]ToolResult, error)
}
