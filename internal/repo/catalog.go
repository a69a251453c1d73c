package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kapilraj/pos-backend/internal/models"
)

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) error {
	return r.DB.WithContext(ctx).Create(cat).Error
}

func (r *GormRepo) GetCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).Where("category_id = ?", categoryID).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
		}
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepo) DeleteCategory(ctx context.Context, categoryID string) error {
	res := r.DB.WithContext(ctx).Where("category_id = ?", categoryID).Delete(&models.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
	}
	return nil
}

func (r *GormRepo) CountItemsByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Item{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

func (r *GormRepo) CreateItem(ctx context.Context, item *models.Item) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).Where("item_id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) ListItems(ctx context.Context, offset, limit int) (int64, []models.Item, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Item
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// UpdateItemColumns writes only the given columns and returns the row as
// stored afterwards. Stock in particular is never touched unless it appears
// in updates, so a concurrent reservation's decrement cannot be overwritten
// by an edit that did not mean to set it.
func (r *GormRepo) UpdateItemColumns(ctx context.Context, itemID string, updates map[string]any) (*models.Item, error) {
	var item models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Item{}).Where("item_id = ?", itemID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		return tx.Where("item_id = ?", itemID).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) DeleteItem(ctx context.Context, itemID string) error {
	res := r.DB.WithContext(ctx).Where("item_id = ?", itemID).Delete(&models.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	return nil
}
