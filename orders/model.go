package orders

import (
	"time"

	"github.com/uptrace/bun"
)

// StatusProcessing is the only status this system writes. Other values are
// reachable only by external mutation of the table.
const StatusProcessing = "Processing"

// Order is one placed order. TotalPrice is computed once at placement and
// never recomputed from items afterwards: totals are immutable historical
// facts fixed at order time.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	OrderID    string    `bun:"order_id,pk" json:"order_id"`
	UserID     string    `bun:"user_id" json:"user_id"`
	Status     string    `bun:"status" json:"status"`
	CreatedAt  time.Time `bun:"created_at" json:"created_at"`
	Details    string    `bun:"details" json:"details"`
	TotalPrice float64   `bun:"total_price" json:"total_price"`

	Items []*OrderItem `bun:"rel:has-many,join:order_id=order_id" json:"items,omitempty"`
}

// OrderItem snapshots the unit price at order time, independent of later
// catalog price changes. ProductID references the external catalog and is
// deliberately not a foreign key.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ItemID    int64   `bun:"item_id,pk,autoincrement" json:"item_id"`
	OrderID   string  `bun:"order_id" json:"order_id"`
	ProductID string  `bun:"product_id" json:"product_id"`
	Quantity  int     `bun:"quantity" json:"quantity"`
	Price     float64 `bun:"price" json:"price"`
}

// LineItem is a placement request entry.
type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlacedLine is one resolved line of a successfully placed order.
type PlacedLine struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice float64
}

// PlacedOrder is the result of a successful placement.
type PlacedOrder struct {
	OrderID    string
	TotalPrice float64
	Lines      []PlacedLine
}
