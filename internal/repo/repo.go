package repo

import (
	"errors"
	"sync"

	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrLowStockLimit     = errors.New("low stock limit exceeded")
)

type GormRepo struct {
	DB *gorm.DB

	mu        sync.Mutex
	itemLocks map[string]*sync.Mutex
}
