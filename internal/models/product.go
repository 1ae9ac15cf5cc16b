package models

import "time"

// Product represents a product in the inventory
type Product struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	SKU        string     `json:"sku"`
	Category   *string    `json:"category,omitempty"`
	SupplierID *int64     `json:"supplier_id,omitempty"`
	Stock      int        `json:"stock"`
	Price      float64    `json:"price"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	IsArchived bool       `json:"is_archived"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ProductUpdate carries the fields of a partial product update. Nil fields
// are left untouched.
type ProductUpdate struct {
	Name       *string    `json:"name"`
	SKU        *string    `json:"sku"`
	Category   *string    `json:"category"`
	SupplierID *int64     `json:"supplier_id"`
	Stock      *int       `json:"stock"`
	Price      *float64   `json:"price"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

// Empty reports whether the update carries no fields at all.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.SKU == nil && u.Category == nil &&
		u.SupplierID == nil && u.Stock == nil && u.Price == nil && u.ExpiryDate == nil
}

// ProductPage is one page of a product listing
type ProductPage struct {
	Data     []Product `json:"data"`
	NextPage bool      `json:"next_page"`
}
