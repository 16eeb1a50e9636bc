package service

import (
	"context"
	"errors"
	"fmt"

	"season-admin/internal/domain"
)

// StatusField names one of the two independently updatable order fields.
type StatusField string

const (
	FieldOrderStatus StatusField = "orderStatus"
	FieldUTRStatus   StatusField = "utrStatus"
)

var (
	ErrOrderNotLoaded = errors.New("order not present in the loaded set")
	ErrInvalidStatus  = errors.New("invalid status value")
	ErrUnknownField   = errors.New("unknown status field")
)

// OrderClient is the slice of the backend client the order screen uses.
type OrderClient interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, id string, patch domain.OrderPatch) error
}

// OrderService holds one screen's copy of the order list. No filter
// facets are derived for orders.
type OrderService struct {
	client OrderClient
	orders []domain.Order
}

// NewOrderService creates an order manager around the given client.
func NewOrderService(client OrderClient) *OrderService {
	return &OrderService{client: client}
}

// Load fetches the full order set.
func (s *OrderService) Load(ctx context.Context) error {
	orders, err := s.client.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	s.orders = orders
	return nil
}

// Orders returns the current in-memory order set.
func (s *OrderService) Orders() []domain.Order {
	return s.orders
}

// Find returns the loaded order with the given id.
func (s *OrderService) Find(orderID string) (domain.Order, bool) {
	if idx := s.indexOf(orderID); idx >= 0 {
		return s.orders[idx], true
	}
	return domain.Order{}, false
}

// UpdateStatus changes one of the two status fields. The new value is
// validated against the field's enum, applied to the local copy first,
// and sent upstream as a PUT carrying only that field. On failure the
// local copy is restored to its prior value.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, field StatusField, value string) error {
	idx := s.indexOf(orderID)
	if idx < 0 {
		return ErrOrderNotLoaded
	}

	var patch domain.OrderPatch
	prior := s.orders[idx]

	switch field {
	case FieldOrderStatus:
		if !domain.ValidOrderStatus(value) {
			return fmt.Errorf("%w: %q is not a fulfillment status", ErrInvalidStatus, value)
		}
		s.orders[idx].OrderStatus = value
		patch.OrderStatus = &value
	case FieldUTRStatus:
		if !domain.ValidUTRStatus(value) {
			return fmt.Errorf("%w: %q is not a payment-verification status", ErrInvalidStatus, value)
		}
		s.orders[idx].UTRStatus = value
		patch.UTRStatus = &value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	if err := s.client.UpdateOrder(ctx, orderID, patch); err != nil {
		s.orders[idx] = prior
		return err
	}
	return nil
}

func (s *OrderService) indexOf(orderID string) int {
	for i := range s.orders {
		if s.orders[i].OrderID == orderID {
			return i
		}
	}
	return -1
}
