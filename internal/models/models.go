package models

import (
	"strings"
	"time"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentKhalti PaymentMethod = "KHALTI"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

// ClassifyPayment derives the initial payment status: cash settles at the
// counter, every gateway method stays pending until confirmed externally.
func ClassifyPayment(m PaymentMethod) PaymentStatus {
	if m == PaymentCash {
		return PaymentCompleted
	}
	return PaymentPending
}

func KnownPaymentMethod(raw string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToUpper(strings.TrimSpace(raw))) {
	case PaymentCash:
		return PaymentCash, true
	case PaymentKhalti:
		return PaymentKhalti, true
	}
	return "", false
}

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"  json:"-"`
	CategoryID  string    `gorm:"uniqueIndex;not null"      json:"categoryId"`
	Name        string    `gorm:"not null"                  json:"name"`
	Description string    `json:"description"`
	BgColor     string    `json:"bgColor"`
	ImgURL      string    `json:"imgUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Item struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"            json:"-"`
	ItemID      string    `gorm:"uniqueIndex;not null"                json:"itemId"`
	Name        string    `gorm:"not null"                            json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                            json:"price"`
	Stock       int       `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CategoryID  string    `gorm:"index;not null"                      json:"categoryId"`
	ImgURL      string    `json:"imgUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Order struct {
	ID            uint        `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID       string      `gorm:"uniqueIndex;not null"     json:"orderId"`
	CustomerName  string      `json:"customerName"`
	PhoneNumber   string      `json:"phoneNumber"`
	Subtotal      float64     `gorm:"not null"                 json:"subtotal"`
	Tax           float64     `gorm:"not null"                 json:"tax"`
	GrandTotal    float64     `gorm:"not null"                 json:"grandTotal"`
	PaymentMethod string      `gorm:"not null"                 json:"paymentMethod"`
	PaymentStatus string      `gorm:"not null"                 json:"paymentStatus"`
	Items         []OrderItem `gorm:"foreignKey:OrderRef"      json:"items"`
	CreatedAt     time.Time   `gorm:"index"                    json:"createdAt"`
}

// OrderItem carries a denormalized snapshot of name/price at order time so
// later catalog edits never rewrite history. ItemID is empty for ad hoc
// lines that are not tracked in inventory.
type OrderItem struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderRef uint    `gorm:"index;not null"           json:"-"`
	ItemID   string  `json:"itemId,omitempty"`
	Name     string  `gorm:"not null"                 json:"name"`
	Quantity int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price    float64 `gorm:"not null"                 json:"price"`
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID       string    `gorm:"uniqueIndex;not null"     json:"userId"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null"                 json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
