package models

import (
	"github.com/google/uuid"
)

// ProductCategory groups menu items.
type ProductCategory string

const (
	CategoryStarter ProductCategory = "STARTER"
	CategoryMain    ProductCategory = "MAIN"
	CategoryDessert ProductCategory = "DESSERT"
)

// Valid reports whether c is one of the known categories.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryStarter, CategoryMain, CategoryDessert:
		return true
	}
	return false
}

// Product is a menu item.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Price       int             `json:"price" db:"price"`
	Img         string          `json:"img" db:"img"`
	Description string          `json:"description" db:"description"`
	Category    ProductCategory `json:"category" db:"category"`
}

// Field limits mirrored by the products table.
const (
	ProductNameMaxLen        = 100
	ProductImgMaxLen         = 300
	ProductDescriptionMaxLen = 300
)
