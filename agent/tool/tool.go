package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
	catalogx "github.com/aryansharma/shopassistant/catalog"
	ordersx "github.com/aryansharma/shopassistant/orders"
)

const (
	ToolSearchProducts   = "search_products"
	ToolCheckOrderStatus = "check_order_status"
	ToolPlaceOrder       = "place_order"
	ToolRemoveOrder      = "remove_order"
	ToolListAllOrders    = "list_all_orders"
)

const defaultStoreTimeout = 10 * time.Second

// CatalogStore is the read-only product catalog surface handlers depend on.
type CatalogStore interface {
	Len() int
	Lookup(id string) (catalogx.Product, bool)
	Categories() []string
	Search(query string) []catalogx.Product
}

// OrderStore is the transactional order surface handlers depend on.
type OrderStore interface {
	PlaceOrder(ctx context.Context, items []ordersx.LineItem) (*ordersx.PlacedOrder, error)
	GetOrder(ctx context.Context, orderID string) (*ordersx.Order, error)
	RemoveOrder(ctx context.Context, orderID string) (int, error)
	ListOrders(ctx context.Context) ([]ordersx.Order, error)
}

// toolsByAgent is the per-specialist allowlist: every specialist is bound to
// at most one capability handler.
var toolsByAgent = map[contractx.AgentName]string{
	contractx.AgentProductSearch: ToolSearchProducts,
	contractx.AgentOrderStatus:   ToolCheckOrderStatus,
	contractx.AgentOrdering:      ToolPlaceOrder,
	contractx.AgentCancellation:  ToolRemoveOrder,
	contractx.AgentListOrders:    ToolListAllOrders,
}

// Gateway executes capability handlers on behalf of specialists. It applies
// the per-agent allowlist and a timeout at the store boundary, and never
// propagates a handler fault as an error: faults become error envelopes.
type Gateway struct {
	catalog      CatalogStore
	orders       OrderStore
	storeTimeout time.Duration
}

var _ contractx.ToolGateway = (*Gateway)(nil)

type GatewayOption func(*Gateway)

func WithStoreTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		if d > 0 {
			g.storeTimeout = d
		}
	}
}

func NewGateway(catalog CatalogStore, orders OrderStore, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		catalog:      catalog,
		orders:       orders,
		storeTimeout: defaultStoreTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

func (g *Gateway) Execute(ctx context.Context, agent contractx.AgentName, reqs []contractx.ToolRequest) ([]contractx.ToolResult, error) {
	results := make([]contractx.ToolResult, 0, len(reqs))
	for _, req := range reqs {
		if allowed, ok := toolsByAgent[agent]; !ok || allowed != req.Tool {
			results = append(results, contractx.ToolResult{
				Tool:  req.Tool,
				Error: fmt.Sprintf("tool=%s is unavailable for agent=%s", req.Tool, agent),
			})
			continue
		}

		opCtx, cancel := context.WithTimeout(ctx, g.storeTimeout)
		envelope := g.dispatch(opCtx, req)
		cancel()

		log.Debug().Str("tool", req.Tool).Str("agent", string(agent)).Str("status", envelope.Status).
			Msg("tool executed")
		results = append(results, contractx.ToolResult{Tool: req.Tool, Result: envelope})
	}
	return results, nil
}

func (g *Gateway) dispatch(ctx context.Context, req contractx.ToolRequest) Result {
	switch req.Tool {
	case ToolSearchProducts:
		return g.searchProducts(stringArg(req.Args, "query"))
	case ToolCheckOrderStatus:
		return g.checkOrderStatus(ctx, stringArg(req.Args, "order_id"))
	case ToolPlaceOrder:
		return g.placeOrder(ctx, itemArgs(req.Args))
	case ToolRemoveOrder:
		return g.removeOrder(ctx, stringArg(req.Args, "order_id"))
	case ToolListAllOrders:
		return g.listAllOrders(ctx)
	default:
		return Error(fmt.Sprintf("unknown tool %q", req.Tool))
	}
}

func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	s, _ := args[key].(string)
	return s
}

// itemArgs decodes the place_order items argument. Quantities arrive as JSON
// numbers (float64); a missing quantity defaults to 1.
func itemArgs(args map[string]any) []ordersx.LineItem {
	raw, _ := args["items"].([]any)
	items := make([]ordersx.LineItem, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		item := ordersx.LineItem{Quantity: 1}
		item.ProductID, _ = m["product_id"].(string)
		switch q := m["quantity"].(type) {
		case float64:
			item.Quantity = int(q)
		case int:
			item.Quantity = q
		}
		items = append(items, item)
	}
	return items
}

// InfoForAgent returns the tool schema bound to a specialist, or nil for the
// direct-response specialists (greeting, farewell).
func InfoForAgent(agent contractx.AgentName) []*schema.ToolInfo {
	switch agent {
	case contractx.AgentProductSearch:
		return []*schema.ToolInfo{{
			Name: ToolSearchProducts,
			Desc: "Search the product catalog by keywords. Also answers category listing and total product count queries.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Search keywords", Required: true},
			}),
		}}
	case contractx.AgentOrderStatus:
		return []*schema.ToolInfo{{
			Name: ToolCheckOrderStatus,
			Desc: "Check the status of an order by its order ID, including item prices and the stored total.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {Type: schema.String, Desc: "The order identifier", Required: true},
			}),
		}}
	case contractx.AgentOrdering:
		return []*schema.ToolInfo{{
			Name: ToolPlaceOrder,
			Desc: "Place an order for one or more products.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"items": {
					Type:     schema.Array,
					Desc:     "Products to order",
					Required: true,
					ElemInfo: &schema.ParameterInfo{
						Type: schema.Object,
						SubParams: map[string]*schema.ParameterInfo{
							"product_id": {Type: schema.String, Desc: "Catalog product ID", Required: true},
							"quantity":   {Type: schema.Integer, Desc: "How many to order", Required: true},
						},
					},
				},
			}),
		}}
	case contractx.AgentCancellation:
		return []*schema.ToolInfo{{
			Name: ToolRemoveOrder,
			Desc: "Cancel and remove an order and its items by order ID.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {Type: schema.String, Desc: "The order identifier", Required: true},
			}),
		}}
	case contractx.AgentListOrders:
		return []*schema.ToolInfo{{
			Name: ToolListAllOrders,
			Desc: "List every order the user has placed, newest first.",
		}}
	default:
		return nil
	}
}
