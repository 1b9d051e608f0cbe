// Package orders implements the resupply order workflow: placement by bars
// and dispatch by supply runners.
package orders

import (
	"context"
	"fmt"

	"barbot/core/logger"
	"barbot/internal/domain"

	"log/slog"
)

// OrderStore is the persistence surface the service needs.
type OrderStore interface {
	Insert(ctx context.Context, o *domain.Order) error
	Dispatch(ctx context.Context, id int64) (*domain.Order, error)
	ListOpen(ctx context.Context) ([]domain.Order, error)
	ListOpenForBar(ctx context.Context, username string) ([]domain.Order, error)
}

// Service runs the order lifecycle.
type Service struct {
	store OrderStore

	// bars maps a bar name (== staff username) to its assigned drink names.
	// A bar with an assignment only sees its assigned drinks in list views.
	bars map[string][]string
}

// New builds the order service. bars may be nil when no assignment exists.
func New(store OrderStore, bars map[string][]string) *Service {
	return &Service{store: store, bars: bars}
}

// Place records a new open order. Quantity must be positive; a zero or
// negative quantity never reaches the store.
func (s *Service) Place(ctx context.Context, username, role, drink string, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	o := &domain.Order{
		Username: username,
		Role:     role,
		Drink:    drink,
		Quantity: quantity,
		Status:   domain.StatusOpen,
	}
	if err := s.store.Insert(ctx, o); err != nil {
		return 0, fmt.Errorf("orders: place: %w", err)
	}
	logger.Info(ctx, "service.orders", "order.placed",
		slog.String("status", "ok"),
		slog.Int64("order_id", o.ID),
		slog.String("username", username),
		slog.String("drink", drink),
		slog.Int("quantity", quantity),
	)
	return o.ID, nil
}

// Dispatch marks an open order as dispatched. The store performs the
// transition conditionally, so concurrent dispatches of the same order
// resolve to one winner and the loser sees ErrAlreadyDispatched.
func (s *Service) Dispatch(ctx context.Context, orderID int64) (*domain.Order, error) {
	o, err := s.store.Dispatch(ctx, orderID)
	if err != nil {
		if err == domain.ErrOrderNotFound || err == domain.ErrAlreadyDispatched {
			logger.Debug(ctx, "service.orders", "order.dispatch_rejected",
				slog.Int64("order_id", orderID),
				slog.String("reason", err.Error()),
			)
			return nil, err
		}
		return nil, fmt.Errorf("orders: dispatch: %w", err)
	}
	logger.Info(ctx, "service.orders", "order.dispatched",
		slog.String("status", "ok"),
		slog.Int64("order_id", o.ID),
		slog.String("username", o.Username),
		slog.String("drink", o.Drink),
		slog.Int("quantity", o.Quantity),
	)
	return o, nil
}

// ListOpen returns all open orders, oldest first.
func (s *Service) ListOpen(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.store.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("orders: list open: %w", err)
	}
	return orders, nil
}

// ListOpenForBar returns the open orders of one bar, narrowed to the drinks
// assigned to it when an assignment exists.
func (s *Service) ListOpenForBar(ctx context.Context, username string) ([]domain.Order, error) {
	orders, err := s.store.ListOpenForBar(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("orders: list open for bar: %w", err)
	}
	assigned, ok := s.bars[username]
	if !ok {
		return orders, nil
	}
	allowed := make(map[string]struct{}, len(assigned))
	for _, d := range assigned {
		allowed[d] = struct{}{}
	}
	filtered := orders[:0]
	for _, o := range orders {
		if _, ok := allowed[o.Drink]; ok {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// AssignedDrinks returns the drink names a bar may order, or nil when the
// bar has no explicit assignment and the full catalog applies.
func (s *Service) AssignedDrinks(username string) []string {
	return s.bars[username]
}
