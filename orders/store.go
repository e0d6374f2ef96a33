package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	catalogx "github.com/aryansharma/shopassistant/catalog"
)

var (
	ErrNotConfigured   = errors.New("order store is not configured")
	ErrOrderNotFound   = errors.New("order not found")
	ErrNoOrders        = errors.New("no orders placed yet")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidPrice    = errors.New("product has an invalid price")
	ErrMissingProduct  = errors.New("product id is missing")
)

// ProductNotFoundError lists every requested product id absent from the
// catalog. Placement validates all items before writing anything, so all
// unresolved ids are reported at once.
type ProductNotFoundError struct {
	IDs []string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("products not found in catalog: %s", strings.Join(e.IDs, ", "))
}

// ProductResolver resolves product ids against the read-only catalog.
type ProductResolver interface {
	Lookup(id string) (catalogx.Product, bool)
}

// Store owns the orders and order_items tables. Every multi-statement
// operation runs in a single transaction: either all rows land or none do.
type Store struct {
	db       *bun.DB
	resolver ProductResolver
	userID   string
	now      func() time.Time
}

func NewStore(db *bun.DB, resolver ProductResolver, userID string) *Store {
	return &Store{
		db:       db,
		resolver: resolver,
		userID:   userID,
		now:      time.Now,
	}
}

// PlaceOrder validates every line item before any write. Unknown product ids
// fail the whole order; so do non-positive quantities and negative catalog
// prices. On success the order row and all item rows are inserted in one
// transaction and the computed total is persisted.
func (s *Store) PlaceOrder(ctx context.Context, items []LineItem) (*PlacedOrder, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotConfigured
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrMissingProduct)
	}

	var (
		lines   []PlacedLine
		total   float64
		missing []string
	)
	for _, item := range items {
		productID := strings.TrimSpace(item.ProductID)
		if productID == "" {
			return nil, ErrMissingProduct
		}

		product, ok := s.resolver.Lookup(productID)
		if !ok {
			missing = append(missing, productID)
			continue
		}
		if product.Price < 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidPrice, productID)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, productID)
		}

		total += float64(item.Quantity) * product.Price
		lines = append(lines, PlacedLine{
			ProductID: productID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &ProductNotFoundError{IDs: missing}
	}

	orderID := uuid.NewString()
	now := s.now().UTC()

	var details []string
	for _, line := range lines {
		details = append(details, fmt.Sprintf("%d x %s @ $%.2f", line.Quantity, line.Name, line.UnitPrice))
	}

	order := &Order{
		OrderID:    orderID,
		UserID:     s.userID,
		Status:     StatusProcessing,
		CreatedAt:  now,
		Details:    "Order placed via AI assistant for: " + strings.Join(details, ", "),
		TotalPrice: total,
	}
	orderItems := make([]*OrderItem, 0, len(lines))
	for _, line := range lines {
		orderItems = append(orderItems, &OrderItem{
			OrderID:   orderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		})
	}

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if _, err := tx.NewInsert().Model(&orderItems).Exec(ctx); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("place order transaction failed")
		return nil, err
	}

	log.Info().Str("order_id", orderID).Float64("total_price", total).Int("items", len(lines)).
		Msg("order placed")

	return &PlacedOrder{OrderID: orderID, TotalPrice: total, Lines: lines}, nil
}

// GetOrder returns the order with its items. The returned TotalPrice is the
// value persisted at placement, never a recomputation. An order with zero
// items is valid.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotConfigured
	}

	order := new(Order)
	err := s.db.NewSelect().
		Model(order).
		Relation("Items").
		Where("o.order_id = ?", orderID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("get order query failed")
		return nil, err
	}
	return order, nil
}

// RemoveOrder deletes the order and its items in one transaction. Items are
// deleted explicitly first even though the cascade would cover them.
// Returns the number of item rows removed.
func (s *Store) RemoveOrder(ctx context.Context, orderID string) (int, error) {
	if s == nil || s.db == nil {
		return 0, ErrNotConfigured
	}

	var itemsRemoved int
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*Order)(nil)).
			Where("o.order_id = ?", orderID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("check order exists: %w", err)
		}
		if !exists {
			return ErrOrderNotFound
		}

		res, err := tx.NewDelete().
			Model((*OrderItem)(nil)).
			Where("order_id = ?", orderID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			itemsRemoved = int(n)
		}

		if _, err := tx.NewDelete().
			Model((*Order)(nil)).
			Where("order_id = ?", orderID).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return nil
	})
	if errors.Is(err, ErrOrderNotFound) {
		return 0, ErrOrderNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("remove order transaction failed")
		return 0, err
	}

	log.Info().Str("order_id", orderID).Int("items_removed", itemsRemoved).Msg("order removed")
	return itemsRemoved, nil
}

// ListOrders returns all orders newest first. An empty store yields
// ErrNoOrders so callers can tell "no data yet" from a query fault.
func (s *Store) ListOrders(ctx context.Context) ([]Order, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotConfigured
	}

	var all []Order
	err := s.db.NewSelect().
		Model(&all).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list orders query failed")
		return nil, err
	}
	if len(all) == 0 {
		return nil, ErrNoOrders
	}
	return all, nil
}
