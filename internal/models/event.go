package models

import "time"

// Catalog event types published after successful mutations.
const (
	EventUserRegistered  = "user.registered"
	EventShopCreated     = "shop.created"
	EventShopUpdated     = "shop.updated"
	EventShopDeleted     = "shop.deleted"
	EventProductCreated  = "product.created"
	EventProductUpdated  = "product.updated"
	EventProductDeleted  = "product.deleted"
	EventCategoryCreated = "category.created"
	EventCategoryUpdated = "category.updated"
	EventCategoryDeleted = "category.deleted"
)

// CatalogEvent describes a change to a catalog entity.
type CatalogEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	EntityID   uint      `json:"entity_id"`
	ActorID    uint      `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
