package models

import "time"

// Category is a node of the category tree. The parent is referenced by id only;
// a nil ParentID marks a root.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:30;not null"`
	ParentID  *uint     `json:"parent" gorm:"index"`
	Products  []Product `json:"-" gorm:"many2many:category_products;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductIDs returns the ids of the products linked to the category.
func (c *Category) ProductIDs() []uint {
	ids := make([]uint, 0, len(c.Products))
	for _, p := range c.Products {
		ids = append(ids, p.ID)
	}
	return ids
}
