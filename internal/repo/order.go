package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kapilraj/pos-backend/internal/models"
)

// lowStockThreshold is the stock level at or below which only a single unit
// may be reserved per order line.
const lowStockThreshold = 5

// StockReservation is one cart line's claim against tracked inventory.
type StockReservation struct {
	ItemID   string
	Quantity int
}

// reserveStock performs the atomic check-and-decrement for one line inside
// tx. The guarded UPDATE re-states the business checks so that the decrement
// can never race past them, whatever this process observed beforehand: the
// row must still hold enough stock, and a low-stock row only ever gives up a
// single unit.
func reserveStock(tx *gorm.DB, res StockReservation) error {
	var item models.Item
	if err := tx.Where("item_id = ?", res.ItemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrItemNotFound, res.ItemID)
		}
		return err
	}

	if item.Stock <= lowStockThreshold && res.Quantity > 1 {
		return fmt.Errorf("%w: item %q is low in stock (%d), max 1 unit allowed",
			ErrLowStockLimit, item.Name, item.Stock)
	}
	if item.Stock < res.Quantity {
		return fmt.Errorf("%w: item %q has only %d left", ErrInsufficientStock, item.Name, item.Stock)
	}

	upd := tx.Model(&models.Item{}).
		Where("item_id = ? AND stock >= ? AND (stock > ? OR ? = 1)",
			res.ItemID, res.Quantity, lowStockThreshold, res.Quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", res.Quantity))
	if upd.Error != nil {
		return upd.Error
	}
	if upd.RowsAffected == 0 {
		// Lost the race between read and decrement. Re-read to report the
		// rule that actually fired.
		if err := tx.Where("item_id = ?", res.ItemID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrItemNotFound, res.ItemID)
			}
			return err
		}
		if item.Stock <= lowStockThreshold && res.Quantity > 1 {
			return fmt.Errorf("%w: item %q is low in stock (%d), max 1 unit allowed",
				ErrLowStockLimit, item.Name, item.Stock)
		}
		return fmt.Errorf("%w: item %q has only %d left", ErrInsufficientStock, item.Name, item.Stock)
	}
	return nil
}

// CreateOrder commits the order aggregate and all of its stock decrements as
// a single transaction. Any failed reservation rolls everything back.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order, reservations []StockReservation) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, res := range reservations {
			if err := reserveStock(tx, res); err != nil {
				return err
			}
		}
		return tx.Create(order).Error
	})
}

// PurchaseItem is the direct stock-decrement path with no order attached.
// Returns the item as it stands after the decrement.
func (r *GormRepo) PurchaseItem(ctx context.Context, itemID string, quantity int) (*models.Item, error) {
	var item models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := reserveStock(tx, StockReservation{ItemID: itemID, Quantity: quantity}); err != nil {
			return err
		}
		return tx.Where("item_id = ?", itemID).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("order_id = ?", orderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return nil, err
	}
	return &order, nil
}

// DeleteOrder removes the order and its line items in one transaction. The
// explicit child delete keeps the cascade portable across drivers.
func (r *GormRepo) DeleteOrder(ctx context.Context, orderID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("order_id = ?", orderID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
			}
			return err
		}
		if err := tx.Where("order_ref = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

func (r *GormRepo) LatestOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Order("created_at DESC").Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SumSalesBetween sums grand totals of orders created in [start, end).
func (r *GormRepo) SumSalesBetween(ctx context.Context, start, end time.Time) (float64, error) {
	var total float64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&total).Error
	return total, err
}

func (r *GormRepo) CountOrdersBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&n).Error
	return n, err
}
