package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry, independent of the shops that sell it.
type Product struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"uniqueIndex;size:50;not null"`
	Desc      string    `json:"desc" gorm:"column:description;type:text"`
	Image     string    `json:"image" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShopProduct is the price and availability of one product in one shop.
type ShopProduct struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	ShopID    uint            `json:"-" gorm:"not null;uniqueIndex:idx_shop_product"`
	Shop      Shop            `json:"shop" gorm:"constraint:OnDelete:CASCADE"`
	ProductID uint            `json:"-" gorm:"not null;uniqueIndex:idx_shop_product"`
	Product   Product         `json:"product" gorm:"constraint:OnDelete:CASCADE"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	InStock   uint            `json:"in_stock" gorm:"not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
