package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/kapilraj/pos-backend/internal/logging"
	"github.com/kapilraj/pos-backend/internal/models"
	"github.com/kapilraj/pos-backend/internal/repo"
	"github.com/kapilraj/pos-backend/internal/search"
	"github.com/kapilraj/pos-backend/internal/transport"
)

// FileStore is the blob backend for category and item images.
type FileStore interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType, filename string) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

// ImageUpload carries an optional multipart image alongside a catalog write.
type ImageUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Files  FileStore
	Search *search.Index
}

func NewCatalogService(r *repo.GormRepo, files FileStore, idx *search.Index) *CatalogService {
	return &CatalogService{Repo: r, Files: files, Search: idx}
}

// uploadImage stores the image if both a store and an image are present.
// Upload failures are logged and swallowed: a missing picture never blocks
// a catalog write.
func (s *CatalogService) uploadImage(ctx context.Context, img *ImageUpload) string {
	if s.Files == nil || img == nil {
		return ""
	}
	url, err := s.Files.Upload(ctx, img.Reader, img.Size, img.ContentType, img.Filename)
	if err != nil {
		logging.FromContext(ctx).Warn("image_upload_failed", "error", err)
		return ""
	}
	return url
}

// deleteImage is the best-effort variant, for replacing a superseded blob.
func (s *CatalogService) deleteImage(ctx context.Context, url string) {
	if s.Files == nil || url == "" {
		return
	}
	if err := s.Files.Delete(ctx, url); err != nil {
		logging.FromContext(ctx).Warn("image_delete_failed", "url", url, "error", err)
	}
}

// removeImage is the strict variant for the delete paths: a failure here
// leaves an orphaned blob behind, so it surfaces to the caller.
func (s *CatalogService) removeImage(ctx context.Context, url string) error {
	if s.Files == nil || url == "" {
		return nil
	}
	if err := s.Files.Delete(ctx, url); err != nil {
		return fmt.Errorf("delete image %s: %w", url, err)
	}
	return nil
}

func (s *CatalogService) indexItem(ctx context.Context, item models.Item) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexItem(ctx, item); err != nil {
		logging.FromContext(ctx).Warn("item_index_failed", "item_id", item.ItemID, "error", err)
	}
}

func (s *CatalogService) deindexItem(ctx context.Context, itemID string) {
	if s.Search == nil {
		return
	}
	if err := s.Search.DeleteItem(ctx, itemID); err != nil {
		logging.FromContext(ctx).Warn("item_deindex_failed", "item_id", itemID, "error", err)
	}
}

func (s *CatalogService) AddCategory(ctx context.Context, req transport.CategoryRequest, img *ImageUpload) (*models.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	cat := &models.Category{
		CategoryID:  uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		BgColor:     req.BgColor,
		ImgURL:      s.uploadImage(ctx, img),
	}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]transport.CategoryResponse, error) {
	cats, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.CategoryResponse, 0, len(cats))
	for _, cat := range cats {
		count, err := s.Repo.CountItemsByCategory(ctx, cat.CategoryID)
		if err != nil {
			return nil, err
		}
		out = append(out, transport.CategoryResponse{Category: cat, Items: count})
	}
	return out, nil
}

// DeleteCategory refuses to remove a category that still has items; the
// caller has to reassign or delete them first.
func (s *CatalogService) DeleteCategory(ctx context.Context, categoryID string) error {
	cat, err := s.Repo.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	count, err := s.Repo.CountItemsByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: category %s still has %d items", ErrConflict, categoryID, count)
	}
	if err := s.Repo.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}
	return s.removeImage(ctx, cat.ImgURL)
}

func validateItemRequest(req transport.ItemRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: item name is required", ErrValidation)
	}
	if req.Price <= 0 {
		return fmt.Errorf("%w: item price must be positive", ErrValidation)
	}
	if req.CategoryID == "" {
		return fmt.Errorf("%w: category id is required", ErrValidation)
	}
	if req.Stock != nil && *req.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	return nil
}

func (s *CatalogService) AddItem(ctx context.Context, req transport.ItemRequest, img *ImageUpload) (*models.Item, error) {
	if err := validateItemRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	stock := 0
	if req.Stock != nil {
		stock = *req.Stock
	}
	item := &models.Item{
		ItemID:      uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       stock,
		CategoryID:  req.CategoryID,
		ImgURL:      s.uploadImage(ctx, img),
	}
	if err := s.Repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	s.indexItem(ctx, *item)
	return item, nil
}

// UpdateItem replaces the mutable fields of an item. Only the supplied
// fields are written, so an omitted stock can never clobber a concurrent
// reservation's decrement. A new image replaces the old one; the stale blob
// is removed only once the row is saved.
func (s *CatalogService) UpdateItem(ctx context.Context, itemID string, req transport.ItemRequest, img *ImageUpload) (*models.Item, error) {
	if err := validateItemRequest(req); err != nil {
		return nil, err
	}

	// same exclusion as checkout: an admin edit and a reservation on the
	// same item must not interleave
	unlock := s.Repo.LockItems(itemID)
	defer unlock()

	item, err := s.Repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":        req.Name,
		"description": req.Description,
		"price":       req.Price,
		"category_id": req.CategoryID,
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	oldURL := ""
	if url := s.uploadImage(ctx, img); url != "" {
		updates["img_url"] = url
		oldURL = item.ImgURL
	}

	updated, err := s.Repo.UpdateItemColumns(ctx, itemID, updates)
	if err != nil {
		return nil, err
	}
	if oldURL != "" {
		s.deleteImage(ctx, oldURL)
	}
	s.indexItem(ctx, *updated)
	return updated, nil
}

func (s *CatalogService) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	return s.Repo.GetItem(ctx, itemID)
}

func (s *CatalogService) ListItems(ctx context.Context, offset, limit int) (int64, []models.Item, error) {
	return s.Repo.ListItems(ctx, offset, limit)
}

func (s *CatalogService) DeleteItem(ctx context.Context, itemID string) error {
	unlock := s.Repo.LockItems(itemID)
	defer unlock()

	item, err := s.Repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	if err := s.removeImage(ctx, item.ImgURL); err != nil {
		return err
	}
	s.deindexItem(ctx, itemID)
	return nil
}
