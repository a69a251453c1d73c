package handlers

import (
	"errors"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kapilraj/pos-backend/internal/events"
	"github.com/kapilraj/pos-backend/internal/khalti"
	"github.com/kapilraj/pos-backend/internal/logging"
	"github.com/kapilraj/pos-backend/internal/repo"
	"github.com/kapilraj/pos-backend/internal/service"
	"github.com/kapilraj/pos-backend/internal/transport"
)

type PaymentHandler struct {
	Orders   *service.OrderService
	Gateway  *khalti.Client
	Producer *events.Producer
}

// InitiatePayment persists the order first and then asks the gateway for a
// payment URL. The order survives a gateway failure so the client can retry
// the payment leg; Khalti amounts are in paisa.
func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx).With("handler", "initiate_payment")

	var req transport.InitiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Order.PaymentMethod == "" {
		req.Order.PaymentMethod = "KHALTI"
	}

	order, err := h.Orders.CreateOrder(ctx, req.Order)
	if err != nil {
		log.Warn("initiate_payment_failed", "stage", "create_order", "error", err)
		if errors.Is(err, repo.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return httpError(err)
	}

	resp, err := h.Gateway.Initiate(ctx, khalti.InitiateRequest{
		ReturnURL:         req.ReturnURL,
		WebsiteURL:        req.WebsiteURL,
		Amount:            int64(math.Round(order.GrandTotal * 100)),
		PurchaseOrderID:   order.OrderID,
		PurchaseOrderName: "Order " + order.OrderID,
		CustomerInfo: map[string]any{
			"name":  order.CustomerName,
			"phone": order.PhoneNumber,
		},
	})
	if err != nil {
		log.Error("initiate_payment_failed", "stage", "gateway", "orderID", order.OrderID, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicOrders, order.OrderID, map[string]any{
		"type":    "payment_initiated",
		"orderID": order.OrderID,
		"amount":  order.GrandTotal,
	})

	log.Info("initiate_payment_success", "orderID", order.OrderID)
	return c.JSON(http.StatusOK, map[string]any{
		"order":  order,
		"khalti": resp,
	})
}

func (h *PaymentHandler) LookupPayment(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx).With("handler", "lookup_payment")

	var req transport.LookupPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Pidx == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "pidx is required")
	}

	resp, err := h.Gateway.Lookup(ctx, req.Pidx)
	if err != nil {
		log.Error("lookup_payment_failed", "pidx", req.Pidx, "error", err)
		return httpError(err)
	}

	log.Info("lookup_payment_success", "pidx", req.Pidx)
	return c.JSON(http.StatusOK, resp)
}
