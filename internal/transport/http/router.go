package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kapilraj/pos-backend/internal/handlers"
	"github.com/kapilraj/pos-backend/internal/middleware/auth"
)

type Deps struct {
	DB               *gorm.DB
	Auth             *auth.Middleware
	AuthHandler      *handlers.AuthHandler
	CategoryHandler  *handlers.CategoryHandler
	ItemHandler      *handlers.ItemHandler
	OrderHandler     *handlers.OrderHandler
	PaymentHandler   *handlers.PaymentHandler
	DashboardHandler *handlers.DashboardHandler
	SearchHandler    *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if sqlDB, err := d.DB.DB(); err != nil || sqlDB.Ping() != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	v1 := e.Group("/api/v1")

	v1.POST("/login", d.AuthHandler.Login)

	v1.GET("/categories", d.CategoryHandler.ListCategories)
	v1.GET("/items", d.ItemHandler.ListItems)
	v1.GET("/items/search", d.SearchHandler.SearchItems)
	v1.GET("/items/:itemId", d.ItemHandler.GetItem)
	v1.POST("/items/:itemId/purchase", d.ItemHandler.Purchase)

	orders := v1.Group("/orders")
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/latest", d.OrderHandler.LatestOrders)
	orders.GET("/:orderId", d.OrderHandler.GetOrder)
	orders.DELETE("/:orderId", d.OrderHandler.DeleteOrder)

	payments := v1.Group("/payments")
	payments.POST("/initiate", d.PaymentHandler.InitiatePayment)
	payments.POST("/lookup", d.PaymentHandler.LookupPayment)

	v1.GET("/dashboard", d.DashboardHandler.Summary, d.Auth.RequireLogin)

	admin := v1.Group("/admin", d.Auth.RequireAdmin)

	admin.POST("/categories", d.CategoryHandler.CreateCategory)
	admin.DELETE("/categories/:categoryId", d.CategoryHandler.DeleteCategory)

	admin.POST("/items", d.ItemHandler.CreateItem)
	admin.PUT("/items/:itemId", d.ItemHandler.UpdateItem)
	admin.DELETE("/items/:itemId", d.ItemHandler.DeleteItem)

	admin.POST("/register", d.AuthHandler.Register)
	admin.GET("/users", d.AuthHandler.ListUsers)
	admin.DELETE("/users/:id", d.AuthHandler.DeleteUser)
}
