package models

import "time"

// Shop is a storefront managed by zero or more responsible users.
type Shop struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"size:30;not null;index"`
	Desc         string    `json:"desc" gorm:"column:description;type:text"`
	IsActive     bool      `json:"is_active" gorm:"not null"`
	Image        string    `json:"image" gorm:"size:255"`
	Responsibles []User    `json:"responsible_id" gorm:"many2many:shop_responsibles;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ResponsibleIDs returns the ids of the shop's responsibles.
func (s *Shop) ResponsibleIDs() []uint {
	ids := make([]uint, 0, len(s.Responsibles))
	for _, u := range s.Responsibles {
		ids = append(ids, u.ID)
	}
	return ids
}
