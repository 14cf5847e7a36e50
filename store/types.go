// Package store is a small order domain with its operations declared in
// struct tags, and in-memory containers to fill it from.
package store

import (
	"time"
)

// Product is an item available for sale. Prices are in cents.
type Product struct {
	ID         int64  `json:"id"`
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Inventory  int    `json:"inventory_count"`
}

// Customer places orders.
type Customer struct {
	ID       int64    `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Address  *Address `json:"address" disassemble:""`
	IsActive bool     `json:"is_active"`
}

// Address is a shipping address; the country name comes from its code.
type Address struct {
	Street      string `json:"street"`
	City        string `json:"city"`
	CountryCode string `json:"country_code" assemble:"container=countries props=:Country"`
	Country     string `json:"country"`
}

// Order is a transaction made by a customer.
type Order struct {
	ID            int64       `json:"id" assemble:"container=order-notes handler=one-to-many props=Text:Notes groups=history"`
	CustomerID    int64       `json:"customer_id" assemble:"container=customers props=FullName:CustomerName,Email:CustomerEmail,:Customer"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Customer      *Customer   `json:"customer" disassemble:""`
	Status        OrderStatus `json:"status" assemble:"container=statuses props=:StatusLabel"`
	StatusLabel   string      `json:"status_label"`
	TagCodes      string      `json:"tag_codes" assemble:"container=tags handler=many-to-many props=:Tags"`
	Tags          []string    `json:"tags"`
	Notes         []string    `json:"notes"`
	Items         []OrderItem `json:"items" disassemble:""`
	ShipTo        *Address    `json:"ship_to" disassemble:""`
	OrderedAt     time.Time   `json:"ordered_at"`
}

// OrderItem is a product line within an order. Name and UnitPrice snapshot
// the product and are only filled while unset.
type OrderItem struct {
	ProductID int64  `json:"product_id" assemble:"container=products props=Name:Name,PriceCents:UnitPrice strategy=reference-null"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Note is a remark recorded against an order.
type Note struct {
	OrderID int64
	Text    string
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)
