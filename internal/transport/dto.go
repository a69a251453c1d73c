package transport

import "github.com/kapilraj/pos-backend/internal/models"

// OrderItemRequest is one cart line. ItemID is optional: lines without it
// are ad hoc and bypass stock tracking.
type OrderItemRequest struct {
	Name     string  `json:"name"`
	ItemID   string  `json:"itemId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderRequest is the checkout payload. Explicit totals, when present,
// always win over computed ones.
type OrderRequest struct {
	CustomerName  string             `json:"customerName"`
	PhoneNumber   string             `json:"phoneNumber"`
	SubTotal      *float64           `json:"subTotal"`
	Tax           *float64           `json:"tax"`
	GrandTotal    *float64           `json:"grandTotal"`
	PaymentMethod string             `json:"paymentMethod"`
	CartItems     []OrderItemRequest `json:"cartItems"`
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BgColor     string `json:"bgColor"`
}

// CategoryResponse is a category plus its live item count.
type CategoryResponse struct {
	models.Category
	Items int64 `json:"items"`
}

type ItemRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Stock       *int    `json:"stock"`
	CategoryID  string  `json:"categoryId"`
	Description string  `json:"description"`
}

type UserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type AuthResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
	Role  string `json:"role"`
}

type DashboardResponse struct {
	TodaySales      float64        `json:"todaySales"`
	TodayOrderCount int64          `json:"todayOrderCount"`
	RecentOrders    []models.Order `json:"recentOrders"`
}

type InitiatePaymentRequest struct {
	Order      OrderRequest `json:"order"`
	ReturnURL  string       `json:"return_url"`
	WebsiteURL string       `json:"website_url"`
}

type LookupPaymentRequest struct {
	Pidx string `json:"pidx"`
}
