package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kapilraj/pos-backend/internal/events"
	"github.com/kapilraj/pos-backend/internal/logging"
	"github.com/kapilraj/pos-backend/internal/service"
	"github.com/kapilraj/pos-backend/internal/transport"
	"github.com/kapilraj/pos-backend/internal/util"
)

type ItemHandler struct {
	Catalog  *service.CatalogService
	Orders   *service.OrderService
	Producer *events.Producer
}

func bindItemRequest(c echo.Context) (transport.ItemRequest, error) {
	var req transport.ItemRequest
	if raw := c.FormValue("item"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return req, echo.NewHTTPError(http.StatusBadRequest, "invalid item payload")
		}
		return req, nil
	}
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return req, nil
}

func (h *ItemHandler) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx).With("handler", "create_item")

	req, err := bindItemRequest(c)
	if err != nil {
		return err
	}
	img, closeImg, err := formImage(c, "file")
	if err != nil {
		return err
	}
	defer closeImg()

	item, err := h.Catalog.AddItem(ctx, req, img)
	if err != nil {
		log.Warn("create_item_failed", "name", req.Name, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicCatalog, item.ItemID, map[string]any{
		"type":   "item_created",
		"itemID": item.ItemID,
		"name":   item.Name,
		"price":  item.Price,
		"stock":  item.Stock,
	})

	log.Info("create_item_success", "itemID", item.ItemID, "name", item.Name)
	return c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx).With("handler", "update_item")

	itemID := c.Param("itemId")
	req, err := bindItemRequest(c)
	if err != nil {
		return err
	}
	img, closeImg, err := formImage(c, "file")
	if err != nil {
		return err
	}
	defer closeImg()

	item, err := h.Catalog.UpdateItem(ctx, itemID, req, img)
	if err != nil {
		log.Warn("update_item_failed", "itemID", itemID, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicCatalog, item.ItemID, map[string]any{
		"type":   "item_updated",
		"itemID": item.ItemID,
		"name":   item.Name,
		"price":  item.Price,
		"stock":  item.Stock,
	})

	log.Info("update_item_success", "itemID", item.ItemID)
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) ListItems(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Catalog.ListItems(c.Request().Context(), offset, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	item, err := h.Catalog.GetItem(c.Request().Context(), c.Param("itemId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx).With("handler", "delete_item")

	itemID := c.Param("itemId")
	if err := h.Catalog.DeleteItem(ctx, itemID); err != nil {
		log.Warn("delete_item_failed", "itemID", itemID, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicCatalog, itemID, map[string]any{
		"type":   "item_deleted",
		"itemID": itemID,
	})

	log.Info("delete_item_success", "itemID", itemID)
	return c.NoContent(http.StatusNoContent)
}

// Purchase decrements stock for a single item without creating an order.
func (h *ItemHandler) Purchase(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx).With("handler", "purchase_item")

	itemID := c.Param("itemId")
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	item, err := h.Orders.Purchase(ctx, itemID, req.Quantity)
	if err != nil {
		log.Warn("purchase_item_failed", "itemID", itemID, "quantity", req.Quantity, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicCatalog, item.ItemID, map[string]any{
		"type":     "item_purchased",
		"itemID":   item.ItemID,
		"quantity": req.Quantity,
		"stock":    item.Stock,
	})

	log.Info("purchase_item_success", "itemID", item.ItemID, "stock", item.Stock)
	return c.JSON(http.StatusOK, item)
}
