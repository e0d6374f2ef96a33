package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/classifier.txt
	classifierRaw string

	//go:embed template/greeting.txt
	greetingRaw string

	//go:embed template/farewell.txt
	farewellRaw string

	//go:embed template/product_search.txt
	productSearchRaw string

	//go:embed template/order_status.txt
	orderStatusRaw string

	//go:embed template/ordering.txt
	orderingRaw string

	//go:embed template/cancellation.txt
	cancellationRaw string

	//go:embed template/list_orders.txt
	listOrdersRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Classifier    string
	Greeting      string
	Farewell      string
	ProductSearch string
	OrderStatus   string
	Ordering      string
	Cancellation  string
	ListOrders    string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings. Safe to call
// concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Classifier:    strings.TrimSpace(classifierRaw),
		Greeting:      strings.TrimSpace(greetingRaw),
		Farewell:      strings.TrimSpace(farewellRaw),
		ProductSearch: strings.TrimSpace(productSearchRaw),
		OrderStatus:   strings.TrimSpace(orderStatusRaw),
		Ordering:      strings.TrimSpace(orderingRaw),
		Cancellation:  strings.TrimSpace(cancellationRaw),
		ListOrders:    strings.TrimSpace(listOrdersRaw),
	}
}
