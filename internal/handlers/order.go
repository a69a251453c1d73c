package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kapilraj/pos-backend/internal/events"
	"github.com/kapilraj/pos-backend/internal/logging"
	"github.com/kapilraj/pos-backend/internal/repo"
	"github.com/kapilraj/pos-backend/internal/service"
	"github.com/kapilraj/pos-backend/internal/transport"
)

type OrderHandler struct {
	Orders   *service.OrderService
	Producer *events.Producer
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx).With("handler", "create_order")

	var req transport.OrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.Orders.CreateOrder(ctx, req)
	if err != nil {
		log.Warn("create_order_failed", "customer", req.CustomerName, "error", err)
		// a cart referencing an unknown item is a client mistake, not a
		// missing resource
		if errors.Is(err, repo.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicOrders, order.OrderID, map[string]any{
		"type":          "order_created",
		"orderID":       order.OrderID,
		"grandTotal":    order.GrandTotal,
		"paymentMethod": order.PaymentMethod,
		"paymentStatus": order.PaymentStatus,
	})

	log.Info("create_order_success",
		"orderID", order.OrderID,
		"grandTotal", order.GrandTotal,
		"paymentStatus", order.PaymentStatus)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.Orders.GetOrder(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx).With("handler", "delete_order")

	orderID := c.Param("orderId")
	if err := h.Orders.DeleteOrder(ctx, orderID); err != nil {
		log.Warn("delete_order_failed", "orderID", orderID, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicOrders, orderID, map[string]any{
		"type":    "order_deleted",
		"orderID": orderID,
	})

	log.Info("delete_order_success", "orderID", orderID)
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHandler) LatestOrders(c echo.Context) error {
	orders, err := h.Orders.LatestOrders(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}
