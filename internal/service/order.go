package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kapilraj/pos-backend/internal/models"
	"github.com/kapilraj/pos-backend/internal/repo"
	"github.com/kapilraj/pos-backend/internal/transport"
)

const recentOrdersLimit = 10

type OrderService struct {
	Repo *repo.GormRepo
}

func NewOrderService(r *repo.GormRepo) *OrderService {
	return &OrderService{Repo: r}
}

var orderSeq atomic.Uint64

// nextOrderID keeps the human-readable ORD prefix while staying unique under
// concurrent checkout: the process-local sequence disambiguates orders that
// land on the same millisecond, and the unique index on order_id backstops
// the multi-replica case.
func nextOrderID() string {
	return fmt.Sprintf("ORD%d-%d", time.Now().UnixMilli(), orderSeq.Add(1))
}

// ParsePaymentMethod maps the raw method string case-insensitively; blank
// defaults to cash at the counter.
func ParsePaymentMethod(raw string) (models.PaymentMethod, error) {
	if strings.TrimSpace(raw) == "" {
		return models.PaymentCash, nil
	}
	method, ok := models.KnownPaymentMethod(raw)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPayment, raw)
	}
	return method, nil
}

// CreateOrder validates and prices the cart, reserves stock for every
// tracked line and persists the aggregate, all-or-nothing.
func (s *OrderService) CreateOrder(ctx context.Context, req transport.OrderRequest) (*models.Order, error) {
	if len(req.CartItems) == 0 {
		return nil, fmt.Errorf("%w: cart items cannot be empty", ErrValidation)
	}

	method, err := ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var computedSubtotal float64
	items := make([]models.OrderItem, 0, len(req.CartItems))
	var reservations []repo.StockReservation
	var lockIDs []string

	for i := range req.CartItems {
		line := &req.CartItems[i]
		if line.Quantity <= 0 || line.Price < 0 {
			return nil, fmt.Errorf("%w: invalid quantity or price for item %q", ErrValidation, line.Name)
		}
		computedSubtotal += float64(line.Quantity) * line.Price

		items = append(items, models.OrderItem{
			ItemID:   line.ItemID,
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
		if line.ItemID != "" {
			reservations = append(reservations, repo.StockReservation{
				ItemID:   line.ItemID,
				Quantity: line.Quantity,
			})
			lockIDs = append(lockIDs, line.ItemID)
		}
	}

	subtotal := computedSubtotal
	if req.SubTotal != nil {
		subtotal = *req.SubTotal
	}
	tax := 0.0
	if req.Tax != nil {
		tax = *req.Tax
	}
	grandTotal := subtotal + tax
	if req.GrandTotal != nil {
		grandTotal = *req.GrandTotal
	}

	order := &models.Order{
		OrderID:       nextOrderID(),
		CustomerName:  req.CustomerName,
		PhoneNumber:   req.PhoneNumber,
		Subtotal:      subtotal,
		Tax:           tax,
		GrandTotal:    grandTotal,
		PaymentMethod: string(method),
		PaymentStatus: string(models.ClassifyPayment(method)),
		Items:         items,
	}

	unlock := s.Repo.LockItems(lockIDs...)
	defer unlock()

	if err := s.Repo.CreateOrder(ctx, order, reservations); err != nil {
		return nil, err
	}
	return order, nil
}

// Purchase decrements stock for a single item outside of any order (guest
// checkout path). The same low-stock and availability rules apply.
func (s *OrderService) Purchase(ctx context.Context, itemID string, quantity int) (*models.Item, error) {
	if itemID == "" {
		return nil, fmt.Errorf("%w: item id is required", ErrValidation)
	}
	if quantity <= 0 {
		quantity = 1
	}

	unlock := s.Repo.LockItems(itemID)
	defer unlock()

	return s.Repo.PurchaseItem(ctx, itemID, quantity)
}

// DeleteOrder removes the order and its line items. Reserved stock is not
// restored: a deleted order is bookkeeping removal, not a refund.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return fmt.Errorf("%w: order id is required", ErrValidation)
	}
	return s.Repo.DeleteOrder(ctx, orderID)
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.Repo.GetOrder(ctx, orderID)
}

func (s *OrderService) LatestOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.LatestOrders(ctx, recentOrdersLimit)
}
