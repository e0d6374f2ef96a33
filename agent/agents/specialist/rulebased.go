package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
	toolx "github.com/aryansharma/shopassistant/agent/tool"
)

// NewRuleRegistry returns a registry with no model dependency. Routing and
// argument extraction are pattern based and replies are phrased from the tool
// envelopes verbatim. It backs the service when no LLM credentials are set
// and doubles as a deterministic fixture in tests.
func NewRuleRegistry() contractx.Registry {
	specialists := make(map[contractx.Intent]contractx.Specialist)
	for _, intent := range []contractx.Intent{
		contractx.IntentGreeting,
		contractx.IntentFarewell,
		contractx.IntentProductSearch,
		contractx.IntentOrderStatus,
		contractx.IntentOrdering,
		contractx.IntentCancellation,
		contractx.IntentListOrders,
	} {
		agent, _ := contractx.AgentForIntent(intent)
		specialists[intent] = &ruleSpecialist{agent: agent}
	}
	return &registryImpl{
		classifier:  ruleClassifier{},
		specialists: specialists,
	}
}

type ruleClassifier struct{}

var nameStatementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmy name is\s+([a-zA-Z][a-zA-Z'\-]*(?:\s+[a-zA-Z][a-zA-Z'\-]*)*)`),
	regexp.MustCompile(`(?i)\bcall me\s+([a-zA-Z][a-zA-Z'\-]*)`),
	regexp.MustCompile(`(?i)^i\s*am\s+([a-zA-Z][a-zA-Z'\-]*)\s*[.!]?$`),
	regexp.MustCompile(`(?i)^i'm\s+([a-zA-Z][a-zA-Z'\-]*)\s*[.!]?$`),
}

func (ruleClassifier) Classify(_ context.Context, req contractx.ClassifierRequest) (contractx.ClassifierDecision, error) {
	msg := strings.TrimSpace(req.UserMessage)
	if msg == "" {
		return contractx.ClassifierDecision{}, fmt.Errorf("%w: user message is required", contractx.ErrValidation)
	}
	lower := strings.ToLower(msg)

	decision := contractx.ClassifierDecision{Intent: classifyText(lower)}
	for _, pattern := range nameStatementPatterns {
		if m := pattern.FindStringSubmatch(msg); m != nil {
			decision.UserName = strings.TrimSpace(m[1])
			break
		}
	}
	return decision, nil
}

// classifyText resolves the most specific matching intent. Cancellation and
// status are checked before ordering because their trigger phrases usually
// contain the word "order" too.
func classifyText(lower string) contractx.Intent {
	containsAny := func(subs ...string) bool {
		for _, sub := range subs {
			if strings.Contains(lower, sub) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("what can you do", "capabilities", "what do you do"):
		return contractx.IntentCapabilities
	case containsAny("bye", "goodbye", "see you", "farewell", "good night"):
		return contractx.IntentFarewell
	case containsAny("order history", "my orders", "past purchases", "previous orders", "what have i ordered"):
		return contractx.IntentListOrders
	case containsAny("cancel", "remove", "delete", "get rid of") && strings.Contains(lower, "order"):
		return contractx.IntentCancellation
	case containsAny("status", "track", "where is") && containsAny("order", "purchase"):
		return contractx.IntentOrderStatus
	case containsAny("buy", "purchase", "order"):
		return contractx.IntentOrdering
	case containsAny("search", "find", "show me", "looking for", "categories", "how many products", "product"):
		return contractx.IntentProductSearch
	case hasGreetingWord(lower):
		return contractx.IntentGreeting
	default:
		return contractx.IntentUnroutable
	}
}

func hasGreetingWord(lower string) bool {
	for _, w := range []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"} {
		if lower == w || strings.HasPrefix(lower, w+" ") || strings.HasPrefix(lower, w+",") || strings.HasPrefix(lower, w+"!") {
			return true
		}
	}
	return false
}

// ruleSpecialist extracts tool arguments with patterns on the first pass and
// relays the envelope text on the second.
type ruleSpecialist struct {
	agent contractx.AgentName
}

func (s *ruleSpecialist) Run(_ context.Context, req contractx.SpecialistRequest) (contractx.SpecialistResponse, error) {
	if len(req.ToolResults) > 0 {
		return s.phrase(req)
	}

	firstName := firstName(req.UserName)
	switch s.agent {
	case contractx.AgentGreeting:
		if firstName != "" {
			return contractx.SpecialistResponse{Message: fmt.Sprintf("Hello, %s! How can I help you today?", firstName)}, nil
		}
		return contractx.SpecialistResponse{Message: "Hello! How can I help you today?"}, nil
	case contractx.AgentFarewell:
		if firstName != "" {
			return contractx.SpecialistResponse{Message: fmt.Sprintf("Goodbye, %s! Have a great day.", firstName)}, nil
		}
		return contractx.SpecialistResponse{Message: "Goodbye! Have a great day."}, nil
	case contractx.AgentProductSearch:
		return contractx.SpecialistResponse{ToolRequests: []contractx.ToolRequest{{
			Tool: toolx.ToolSearchProducts,
			Args: map[string]any{"query": searchQuery(req.UserMessage)},
		}}}, nil
	case contractx.AgentOrderStatus:
		id := extractOrderID(req.UserMessage)
		if id == "" {
			return contractx.SpecialistResponse{Message: "Could you share the order ID you want me to check?"}, nil
		}
		return contractx.SpecialistResponse{ToolRequests: []contractx.ToolRequest{{
			Tool: toolx.ToolCheckOrderStatus,
			Args: map[string]any{"order_id": id},
		}}}, nil
	case contractx.AgentCancellation:
		id := extractOrderID(req.UserMessage)
		if id == "" {
			return contractx.SpecialistResponse{Message: "Could you share the order ID you want me to cancel?"}, nil
		}
		return contractx.SpecialistResponse{ToolRequests: []contractx.ToolRequest{{
			Tool: toolx.ToolRemoveOrder,
			Args: map[string]any{"order_id": id},
		}}}, nil
	case contractx.AgentOrdering:
		items := extractLineItems(req.UserMessage)
		if len(items) == 0 {
			return contractx.SpecialistResponse{Message: "I couldn't work out which products you want. Please give me product IDs and quantities."}, nil
		}
		return contractx.SpecialistResponse{ToolRequests: []contractx.ToolRequest{{
			Tool: toolx.ToolPlaceOrder,
			Args: map[string]any{"items": items},
		}}}, nil
	case contractx.AgentListOrders:
		return contractx.SpecialistResponse{ToolRequests: []contractx.ToolRequest{{
			Tool: toolx.ToolListAllOrders,
		}}}, nil
	default:
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: unsupported agent=%q", contractx.ErrValidation, s.agent)
	}
}

func (s *ruleSpecialist) phrase(req contractx.SpecialistRequest) (contractx.SpecialistResponse, error) {
	result := req.ToolResults[0]
	if result.Error != "" {
		return contractx.SpecialistResponse{Message: "Sorry, I can't do that right now: " + result.Error}, nil
	}

	envelope, err := asEnvelope(result.Result)
	if err != nil {
		return contractx.SpecialistResponse{}, err
	}

	switch envelope.Status {
	case toolx.StatusReport:
		message := envelope.Report
		if envelope.IntroMessage != "" {
			message = envelope.IntroMessage + "\n" + message
		}
		return contractx.SpecialistResponse{Message: message}, nil
	case toolx.StatusSuccess, toolx.StatusNotFound, toolx.StatusError:
		return contractx.SpecialistResponse{Message: envelope.Message}, nil
	default:
		return contractx.SpecialistResponse{}, fmt.Errorf("%w: unknown envelope status=%q", contractx.ErrSchemaViolation, envelope.Status)
	}
}

// asEnvelope recovers the handler envelope whether it arrives as the concrete
// type or as decoded JSON.
func asEnvelope(raw any) (toolx.Result, error) {
	switch v := raw.(type) {
	case toolx.Result:
		return v, nil
	case *toolx.Result:
		if v == nil {
			return toolx.Result{}, fmt.Errorf("%w: nil tool envelope", contractx.ErrSchemaViolation)
		}
		return *v, nil
	default:
		data, err := json.Marshal(raw)
		if err != nil {
			return toolx.Result{}, fmt.Errorf("%w: marshal tool envelope: %v", contractx.ErrSchemaViolation, err)
		}
		var envelope toolx.Result
		if err := json.Unmarshal(data, &envelope); err != nil {
			return toolx.Result{}, fmt.Errorf("%w: decode tool envelope: %v", contractx.ErrSchemaViolation, err)
		}
		return envelope, nil
	}
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

var searchPrefixes = []string{
	"search for", "search", "find me", "find", "show me", "looking for", "i want", "i need",
}

func searchQuery(message string) string {
	query := strings.TrimSpace(message)
	lower := strings.ToLower(query)
	for _, prefix := range searchPrefixes {
		if strings.HasPrefix(lower, prefix+" ") {
			query = strings.TrimSpace(query[len(prefix):])
			break
		}
	}
	if query == "" {
		return message
	}
	return query
}

var (
	uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

	// A keyword, optionally followed by filler words, then an id-looking
	// token. The token must contain a digit so filler never wins.
	orderIDPattern = regexp.MustCompile(`(?i)(?:\border\b|\bid\b|\bnumber\b|#)(?:\s+(?:number|id|with|the|is))*\s*[:#]?\s*([A-Za-z0-9\-]*\d[A-Za-z0-9\-]*)`)
)

func extractOrderID(message string) string {
	if m := uuidPattern.FindString(message); m != "" {
		return m
	}
	for _, m := range orderIDPattern.FindAllStringSubmatch(message, -1) {
		if candidate := strings.Trim(m[1], "-"); candidate != "" {
			return candidate
		}
	}
	return ""
}

var (
	quantityItemPattern = regexp.MustCompile(`(?i)\b(\d+|one|two|three|four|five|six|seven|eight|nine|ten)\s+(?:of\s+)?(?:x\s+)?(?:item\s+|product\s+)?(?:id:?\s*)?([A-Za-z0-9\-]*\d[A-Za-z0-9\-]*)`)
	bareItemPattern     = regexp.MustCompile(`(?i)(?:product\s+id:?\s*|item\s+|\bid:?\s*)([A-Za-z0-9\-]*\d[A-Za-z0-9\-]*)`)

	numberWords = map[string]int{
		"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
		"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	}
)

type lineItemMatch struct {
	pos int
	id  string
	qty int
}

// extractLineItems pulls (quantity, product id) pairs out of free text in the
// order the user mentioned them. Product ids must contain a digit; a product
// mentioned without a count gets quantity one.
func extractLineItems(message string) []any {
	var matches []lineItemMatch

	for _, idx := range quantityItemPattern.FindAllStringSubmatchIndex(message, -1) {
		qtyRaw := strings.ToLower(message[idx[2]:idx[3]])
		qty := numberWords[qtyRaw]
		if qty == 0 {
			if n, err := strconv.Atoi(qtyRaw); err == nil {
				qty = n
			}
		}
		if qty <= 0 {
			continue
		}
		matches = append(matches, lineItemMatch{pos: idx[4], id: message[idx[4]:idx[5]], qty: qty})
	}
	for _, idx := range bareItemPattern.FindAllStringSubmatchIndex(message, -1) {
		matches = append(matches, lineItemMatch{pos: idx[2], id: message[idx[2]:idx[3]], qty: 1})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })

	seen := make(map[string]bool)
	var items []any
	for _, m := range matches {
		id := strings.Trim(m.id, "-")
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		items = append(items, map[string]any{"product_id": id, "quantity": m.qty})
	}
	return items
}
