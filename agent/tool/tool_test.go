package tool

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
	catalogx "github.com/aryansharma/shopassistant/catalog"
	ordersx "github.com/aryansharma/shopassistant/orders"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()

	db, err := ordersx.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, ordersx.Init(context.Background(), db))

	cat := catalogx.New([]catalogx.Product{
		{ID: "ELEC-001", Name: "Wireless Mouse", Description: "Ergonomic wireless mouse", Category: "Electronics", Price: 19.99},
		{ID: "ELEC-002", Name: "Mechanical Keyboard", Description: "Backlit mechanical keyboard", Category: "Electronics", Price: 89.99},
		{ID: "HOME-001", Name: "Desk Lamp", Description: "LED desk lamp", Category: "Home & Office", Price: 24.50},
	})
	store := ordersx.NewStore(db, cat, "Aryan Sharma")
	return NewGateway(cat, store)
}

func execOne(t *testing.T, g *Gateway, agent contractx.AgentName, tool string, args map[string]any) Result {
	t.Helper()
	results, err := g.Execute(context.Background(), agent, []contractx.ToolRequest{{Tool: tool, Args: args}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	if results[0].Error != "" {
		t.Fatalf("unexpected gateway error: %s", results[0].Error)
	}
	envelope, ok := results[0].Result.(Result)
	require.True(t, ok, "result is not an envelope")
	return envelope
}

func TestExecuteRejectsToolOutsideAllowlist(t *testing.T) {
	g := newTestGateway(t)

	results, err := g.Execute(context.Background(), contractx.AgentProductSearch, []contractx.ToolRequest{
		{Tool: ToolPlaceOrder, Args: map[string]any{}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Error, "unavailable")
	assert.Nil(t, results[0].Result)
}

func TestSearchProductsKeyword(t *testing.T) {
	g := newTestGateway(t)

	res := execOne(t, g, contractx.AgentProductSearch, ToolSearchProducts, map[string]any{"query": "mouse"})
	assert.Equal(t, StatusReport, res.Status)
	assert.Contains(t, res.Report, "Wireless Mouse (ID: ELEC-001, Price: $19.99)")

	res = execOne(t, g, contractx.AgentProductSearch, ToolSearchProducts, map[string]any{"query": "submarine"})
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Equal(t, "Sorry, no products found matching 'submarine'.", res.Message)
}

func TestSearchProductsCategoriesQuery(t *testing.T) {
	g := newTestGateway(t)

	res := execOne(t, g, contractx.AgentProductSearch, ToolSearchProducts,
		map[string]any{"query": "what categories do you have"})
	assert.Equal(t, StatusReport, res.Status)
	assert.Equal(t, "Available product categories are: Electronics, Home & Office.", res.Report)
}

func TestSearchProductsCountQuery(t *testing.T) {
	g := newTestGateway(t)

	res := execOne(t, g, contractx.AgentProductSearch, ToolSearchProducts,
		map[string]any{"query": "total product count please"})
	assert.Equal(t, StatusReport, res.Status)
	assert.Equal(t, "There are currently 3 products in our catalog.", res.Report)
}

func TestSearchProductsBlankQuery(t *testing.T) {
	g := newTestGateway(t)

	res := execOne(t, g, contractx.AgentProductSearch, ToolSearchProducts, map[string]any{"query": "   "})
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Equal(t, "Please provide keywords.", res.Message)
}

func TestPlaceOrderSuccess(t *testing.T) {
	g := newTestGateway(t)

	res := execOne(t, g, contractx.AgentOrdering, ToolPlaceOrder, map[string]any{
		"items": []any{
			map[string]any{"product_id": "ELEC-001", "quantity": float64(2)},
			map[string]any{"product_id": "ELEC-002"},
		},
	})
	require.Equal(t, StatusSuccess, res.Status)
	assert.NotEmpty(t, res.OrderID)
	assert.Contains(t, res.Message, "2 x Wireless Mouse, 1 x Mechanical Keyboard")
	assert.Contains(t, res.Message, "Total cost: $129.97.")
	assert.Contains(t, res.Message, res.OrderID)
}

func TestPlaceOrderUnknownProducts(t *testing.T) {
	g := newTestGateway(t)

	res := execOne(t, g, contractx.AgentOrdering, ToolPlaceOrder, map[string]any{
		"items": []any{
			map[string]any{"product_id": "NOPE-2", "quantity": float64(1)},
			map[string]any{"product_id": "NOPE-1", "quantity": float64(1)},
		},
	})
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "The following product IDs were not found in the catalog: NOPE-1, NOPE-2.", res.Message)
}

func TestPlaceOrderInvalidQuantity(t *testing.T) {
	g := newTestGateway(t)

	res := execOne(t, g, contractx.AgentOrdering, ToolPlaceOrder, map[string]any{
		"items": []any{map[string]any{"product_id": "ELEC-001", "quantity": float64(-1)}},
	})
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "Invalid quantity for product 'ELEC-001'. Please specify a valid positive number.", res.Message)
}

func TestCheckOrderStatus(t *testing.T) {
	g := newTestGateway(t)

	placed := execOne(t, g, contractx.AgentOrdering, ToolPlaceOrder, map[string]any{
		"items": []any{map[string]any{"product_id": "ELEC-001", "quantity": float64(2)}},
	})
	require.Equal(t, StatusSuccess, placed.Status)

	res := execOne(t, g, contractx.AgentOrderStatus, ToolCheckOrderStatus, map[string]any{"order_id": placed.OrderID})
	require.Equal(t, StatusReport, res.Status)
	assert.Contains(t, res.Report, "Details for order "+placed.OrderID)
	assert.Contains(t, res.Report, "Status: Processing")
	assert.Contains(t, res.Report, "- 2 x Wireless Mouse @ $19.99 each ($39.98)")
	assert.Contains(t, res.Report, "Total Amount: $39.98")

	res = execOne(t, g, contractx.AgentOrderStatus, ToolCheckOrderStatus, map[string]any{"order_id": "missing-id"})
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Equal(t, "Order with ID missing-id not found.", res.Message)
}

func TestRemoveOrderTool(t *testing.T) {
	g := newTestGateway(t)

	res := execOne(t, g, contractx.AgentCancellation, ToolRemoveOrder, map[string]any{"order_id": "missing-id"})
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Equal(t, "Order with ID missing-id not found. Cannot remove.", res.Message)

	placed := execOne(t, g, contractx.AgentOrdering, ToolPlaceOrder, map[string]any{
		"items": []any{map[string]any{"product_id": "HOME-001", "quantity": float64(1)}},
	})
	require.Equal(t, StatusSuccess, placed.Status)

	res = execOne(t, g, contractx.AgentCancellation, ToolRemoveOrder, map[string]any{"order_id": placed.OrderID})
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "Order "+placed.OrderID+" has been successfully removed.", res.Message)
}

func TestListAllOrders(t *testing.T) {
	g := newTestGateway(t)

	res := execOne(t, g, contractx.AgentListOrders, ToolListAllOrders, nil)
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Equal(t, "You have not placed any orders yet.", res.Message)

	for _, id := range []string{"ELEC-001", "ELEC-002"} {
		placed := execOne(t, g, contractx.AgentOrdering, ToolPlaceOrder, map[string]any{
			"items": []any{map[string]any{"product_id": id, "quantity": float64(1)}},
		})
		require.Equal(t, StatusSuccess, placed.Status)
	}

	res = execOne(t, g, contractx.AgentListOrders, ToolListAllOrders, nil)
	require.Equal(t, StatusReport, res.Status)
	assert.Equal(t, "Here is your order history:", res.IntroMessage)
	assert.True(t, strings.HasPrefix(res.Report, "<table class='orders-table'>"))
	assert.Contains(t, res.Report, "<th>Order ID</th><th>Status</th><th>Total</th><th>Placed On</th>")
	assert.Equal(t, 3, strings.Count(res.Report, "<tr>"))
}

func TestGatewayWithoutOrderStore(t *testing.T) {
	g := NewGateway(catalogx.New(nil), nil)

	res := g.dispatch(context.Background(), contractx.ToolRequest{Tool: ToolPlaceOrder})
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "Database is not configured. Cannot place order.", res.Message)

	res = g.dispatch(context.Background(), contractx.ToolRequest{Tool: ToolListAllOrders})
	assert.Equal(t, "Database is not configured. Cannot list orders.", res.Message)
}

func TestInfoForAgent(t *testing.T) {
	t.Parallel()

	infos := InfoForAgent(contractx.AgentOrdering)
	require.Len(t, infos, 1)
	assert.Equal(t, ToolPlaceOrder, infos[0].Name)

	assert.Nil(t, InfoForAgent(contractx.AgentGreeting))
	assert.Nil(t, InfoForAgent(contractx.AgentFarewell))
}
