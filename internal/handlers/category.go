package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kapilraj/pos-backend/internal/events"
	"github.com/kapilraj/pos-backend/internal/logging"
	"github.com/kapilraj/pos-backend/internal/service"
	"github.com/kapilraj/pos-backend/internal/transport"
)

type CategoryHandler struct {
	Catalog  *service.CatalogService
	Producer *events.Producer
}

// CreateCategory accepts multipart form data: a "category" part with the
// JSON payload and an optional "file" part with the image.
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx).With("handler", "create_category")

	var req transport.CategoryRequest
	if raw := c.FormValue("category"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category payload")
		}
	} else if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	img, closeImg, err := formImage(c, "file")
	if err != nil {
		return err
	}
	defer closeImg()

	cat, err := h.Catalog.AddCategory(ctx, req, img)
	if err != nil {
		log.Warn("create_category_failed", "name", req.Name, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicCatalog, cat.CategoryID, map[string]any{
		"type":       "category_created",
		"categoryID": cat.CategoryID,
		"name":       cat.Name,
	})

	log.Info("create_category_success", "categoryID", cat.CategoryID, "name", cat.Name)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	cats, err := h.Catalog.ListCategories(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx).With("handler", "delete_category")

	categoryID := c.Param("categoryId")
	if err := h.Catalog.DeleteCategory(ctx, categoryID); err != nil {
		log.Warn("delete_category_failed", "categoryID", categoryID, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicCatalog, categoryID, map[string]any{
		"type":       "category_deleted",
		"categoryID": categoryID,
	})

	log.Info("delete_category_success", "categoryID", categoryID)
	return c.NoContent(http.StatusNoContent)
}
