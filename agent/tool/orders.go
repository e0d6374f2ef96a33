package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	ordersx "github.com/aryansharma/shopassistant/orders"
)

// checkOrderStatus renders the stored order as a plain-text report. The
// total comes from the persisted total_price column, never recomputed from
// the item rows.
func (g *Gateway) checkOrderStatus(ctx context.Context, orderID string) Result {
	if g.orders == nil {
		return Error("Database is not configured. Cannot check order status.")
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return Error("Please provide an order ID.")
	}

	order, err := g.orders.GetOrder(ctx, orderID)
	if errors.Is(err, ordersx.ErrOrderNotFound) {
		return NotFound(fmt.Sprintf("Order with ID %s not found.", orderID))
	}
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("check order status failed")
		return Error(fmt.Sprintf("An error occurred while checking status for order '%s': %v", orderID, err))
	}

	itemsSummary := "No items listed."
	if len(order.Items) > 0 {
		lines := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			name := fmt.Sprintf("Unknown Product (%s)", item.ProductID)
			if g.catalog != nil {
				if p, ok := g.catalog.Lookup(item.ProductID); ok {
					name = p.Name
				}
			}
			cost := float64(item.Quantity) * item.Price
			lines = append(lines, fmt.Sprintf("- %d x %s @ $%.2f each ($%.2f)", item.Quantity, name, item.Price, cost))
		}
		itemsSummary = strings.Join(lines, "\n")
	}

	details := order.Details
	if details == "" {
		details = "No additional details available."
	}

	return Report(fmt.Sprintf(
		"Details for order %s (Placed On: %s):\nStatus: %s\nItems:\n%s\nTotal Amount: $%.2f\nMore Info: %s",
		order.OrderID,
		order.CreatedAt.Format(time.RFC3339),
		order.Status,
		itemsSummary,
		order.TotalPrice,
		details,
	))
}

func (g *Gateway) placeOrder(ctx context.Context, items []ordersx.LineItem) Result {
	if g.orders == nil {
		return Error("Database is not configured. Cannot place order.")
	}

	placed, err := g.orders.PlaceOrder(ctx, items)
	if err != nil {
		var notFound *ordersx.ProductNotFoundError
		switch {
		case errors.As(err, &notFound):
			return Error(fmt.Sprintf("The following product IDs were not found in the catalog: %s.",
				strings.Join(notFound.IDs, ", ")))
		case errors.Is(err, ordersx.ErrMissingProduct):
			return Error("Invalid order item: product ID is missing.")
		case errors.Is(err, ordersx.ErrInvalidQuantity):
			return Error(fmt.Sprintf("Invalid quantity for product '%s'. Please specify a valid positive number.",
				trailingProductID(err)))
		case errors.Is(err, ordersx.ErrInvalidPrice):
			return Error(fmt.Sprintf("Product '%s' has an invalid price. Cannot place order.",
				trailingProductID(err)))
		default:
			log.Error().Err(err).Msg("place order failed")
			return Error(fmt.Sprintf("An error occurred while placing your order: %v", err))
		}
	}

	summaries := make([]string, 0, len(placed.Lines))
	for _, line := range placed.Lines {
		summaries = append(summaries, fmt.Sprintf("%d x %s", line.Quantity, line.Name))
	}
	return Success(placed.OrderID, fmt.Sprintf(
		"Your order for %s has been placed successfully! Total cost: $%.2f. Your order ID is %s.",
		strings.Join(summaries, ", "), placed.TotalPrice, placed.OrderID,
	))
}

func (g *Gateway) removeOrder(ctx context.Context, orderID string) Result {
	if g.orders == nil {
		return Error("Database is not configured. Cannot remove order.")
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return Error("Please provide an order ID.")
	}

	_, err := g.orders.RemoveOrder(ctx, orderID)
	if errors.Is(err, ordersx.ErrOrderNotFound) {
		return NotFound(fmt.Sprintf("Order with ID %s not found. Cannot remove.", orderID))
	}
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("remove order failed")
		return Error(fmt.Sprintf("An error occurred while removing order '%s': %v", orderID, err))
	}
	return Success(orderID, fmt.Sprintf("Order %s has been successfully removed.", orderID))
}

// listAllOrders formats the order history as an HTML table; the specialist
// presents the table as-is with a plain-text intro.
func (g *Gateway) listAllOrders(ctx context.Context) Result {
	if g.orders == nil {
		return Error("Database is not configured. Cannot list orders.")
	}

	all, err := g.orders.ListOrders(ctx)
	if errors.Is(err, ordersx.ErrNoOrders) {
		return NotFound("You have not placed any orders yet.")
	}
	if err != nil {
		log.Error().Err(err).Msg("list orders failed")
		return Error(fmt.Sprintf("An error occurred while listing orders: %v", err))
	}

	var b strings.Builder
	b.WriteString("<table class='orders-table'>")
	b.WriteString("<tr><th>Order ID</th><th>Status</th><th>Total</th><th>Placed On</th></tr>")
	for _, order := range all {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>$%.2f</td><td>%s</td></tr>",
			order.OrderID, order.Status, order.TotalPrice, order.CreatedAt.Format(time.RFC3339))
	}
	b.WriteString("</table>")

	res := Report(b.String())
	res.IntroMessage = "Here is your order history:"
	return res
}

// trailingProductID pulls the product id out of "...: product <id>" errors.
func trailingProductID(err error) string {
	msg := err.Error()
	idx := strings.LastIndex(msg, "product ")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(msg[idx+len("product "):])
}
