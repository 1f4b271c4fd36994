package models

import (
	"github.com/google/uuid"
)

// Quantity is an order line item: one product and a count.
type Quantity struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order" db:"order_id"`
	ProductID uuid.UUID `json:"product" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
}
