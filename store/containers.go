package store

import (
	"struct-assembler/container"
)

// Products is the fixed catalogue served by Containers.
var Products = []Product{
	{ID: 1, SKU: "PEN-01", Name: "Fountain pen", PriceCents: 2500, Inventory: 12},
	{ID: 2, SKU: "INK-02", Name: "Blue ink", PriceCents: 800, Inventory: 40},
	{ID: 3, SKU: "PAD-03", Name: "Notepad", PriceCents: 450, Inventory: 0},
}

// Customers is the fixed customer list served by Containers.
var Customers = []Customer{
	{ID: 10, Email: "ada@example.com", FullName: "Ada Lovelace", IsActive: true},
	{ID: 11, Email: "grace@example.com", FullName: "Grace Hopper", IsActive: true},
}

// Containers returns in-memory containers for every namespace the store
// types refer to.
func Containers() []container.Container {
	notes := map[int64][]Note{
		100: {{OrderID: 100, Text: "gift"}, {OrderID: 100, Text: "leave at door"}},
	}

	return []container.Container{
		container.FromValues("products", func(p Product) int64 { return p.ID }, Products...),
		container.FromValues("customers", func(c Customer) int64 { return c.ID }, Customers...),
		container.FromMap("statuses", map[OrderStatus]string{
			StatusPending:   "Pending",
			StatusPaid:      "Paid",
			StatusShipped:   "Shipped",
			StatusCancelled: "Cancelled",
		}),
		container.FromMap("tags", map[string]string{"gift": "Gift wrap", "express": "Express delivery"}),
		container.FromMap("countries", map[string]string{"GB": "United Kingdom", "US": "United States"}),
		container.FromMap("order-notes", notes),
	}
}
