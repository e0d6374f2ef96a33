package specialist

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
	toolx "github.com/aryansharma/shopassistant/agent/tool"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	err       error
	idx       int
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

func TestClassifierSuccess(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"intent":"ordering","user_name":"Aryan Sharma"}`},
		},
	}

	classifier, err := newClassifier(context.Background(), fake, "classifier prompt")
	if err != nil {
		t.Fatalf("newClassifier() error = %v", err)
	}

	decision, err := classifier.Classify(context.Background(), contractx.ClassifierRequest{
		UserMessage: "My name is Aryan Sharma, order two of ELEC-001",
	})
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if decision.Intent != contractx.IntentOrdering {
		t.Fatalf("unexpected intent: %s", decision.Intent)
	}
	if decision.UserName != "Aryan Sharma" {
		t.Fatalf("unexpected user name: %s", decision.UserName)
	}
}

func TestClassifierRejectsUnknownIntent(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"intent":"buy_stuff"}`},
		},
	}

	classifier, err := newClassifier(context.Background(), fake, "classifier prompt")
	if err != nil {
		t.Fatalf("newClassifier() error = %v", err)
	}

	_, err = classifier.Classify(context.Background(), contractx.ClassifierRequest{UserMessage: "order ELEC-001"})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestSpecialistToolCallMapping(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				Role: schema.Assistant,
				ToolCalls: []schema.ToolCall{
					{
						ID:   "call_1",
						Type: "function",
						Function: schema.FunctionCall{
							Name:      toolx.ToolSearchProducts,
							Arguments: `{"query":"wireless mouse"}`,
						},
					},
				},
			},
		},
	}

	spec, err := newSpecialist(context.Background(), contractx.AgentProductSearch, fake, "search prompt")
	if err != nil {
		t.Fatalf("newSpecialist() error = %v", err)
	}

	resp, err := spec.Run(context.Background(), contractx.SpecialistRequest{
		UserMessage: "find me a wireless mouse",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(resp.ToolRequests) != 1 {
		t.Fatalf("expected 1 tool request, got %d", len(resp.ToolRequests))
	}
	if resp.ToolRequests[0].Tool != toolx.ToolSearchProducts {
		t.Fatalf("unexpected tool name: %s", resp.ToolRequests[0].Tool)
	}
	if resp.ToolRequests[0].Args["query"] != "wireless mouse" {
		t.Fatalf("unexpected args: %#v", resp.ToolRequests[0].Args)
	}
}

func TestSpecialistRejectsForeignTool(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				Role: schema.Assistant,
				ToolCalls: []schema.ToolCall{
					{
						ID:   "call_1",
						Type: "function",
						Function: schema.FunctionCall{
							Name:      toolx.ToolRemoveOrder,
							Arguments: `{"order_id":"abc"}`,
						},
					},
				},
			},
		},
	}

	spec, err := newSpecialist(context.Background(), contractx.AgentProductSearch, fake, "search prompt")
	if err != nil {
		t.Fatalf("newSpecialist() error = %v", err)
	}

	_, err = spec.Run(context.Background(), contractx.SpecialistRequest{UserMessage: "find a mouse"})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestSpecialistPhrasesToolResults(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"message":"Here's what I found for you, Aryan: Wireless Mouse."}`},
		},
	}

	spec, err := newSpecialist(context.Background(), contractx.AgentProductSearch, fake, "search prompt")
	if err != nil {
		t.Fatalf("newSpecialist() error = %v", err)
	}

	resp, err := spec.Run(context.Background(), contractx.SpecialistRequest{
		UserMessage: "find me a wireless mouse",
		UserName:    "Aryan",
		ToolResults: []contractx.ToolResult{
			{Tool: toolx.ToolSearchProducts, Result: toolx.Report("I found 1 product(s) matching 'mouse': ...")},
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if resp.Message == "" {
		t.Fatal("expected non-empty message")
	}
	if len(resp.ToolRequests) != 0 {
		t.Fatalf("expected no tool requests, got %#v", resp.ToolRequests)
	}
}

func TestDirectSpecialistNeverPlansTools(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"message":"Hello, Aryan!"}`},
		},
	}

	spec, err := newSpecialist(context.Background(), contractx.AgentGreeting, fake, "greeting prompt")
	if err != nil {
		t.Fatalf("newSpecialist() error = %v", err)
	}

	resp, err := spec.Run(context.Background(), contractx.SpecialistRequest{
		UserMessage: "hi there",
		UserName:    "Aryan",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if resp.Message != "Hello, Aryan!" {
		t.Fatalf("unexpected message: %s", resp.Message)
	}
}
