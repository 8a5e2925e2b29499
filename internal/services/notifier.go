package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"shopcatalog/internal/metrics"
	"shopcatalog/internal/models"
)

// EventPublisher hands a serialized catalog event to a message broker.
type EventPublisher interface {
	PublishEvent(eventType string, body []byte) error
}

// Notifier publishes catalog events after successful mutations. Publishing is
// best effort: failures are logged and counted but never fail the request.
// A nil Notifier discards events.
type Notifier struct {
	publisher EventPublisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewNotifier creates a Notifier. m may be nil.
func NewNotifier(publisher EventPublisher, m *metrics.Metrics) *Notifier {
	return &Notifier{publisher: publisher, metrics: m, now: time.Now}
}

// Notify publishes an event of the given type about entityID.
func (n *Notifier) Notify(eventType string, entityID uint, actor *models.User) {
	if n == nil || n.publisher == nil {
		return
	}

	event := models.CatalogEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityID:   entityID,
		OccurredAt: n.now().UTC(),
	}
	if actor != nil {
		event.ActorID = actor.ID
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("event_type", eventType).Error("failed to encode catalog event")
		n.count(eventType, "error")
		return
	}

	if err := n.publisher.PublishEvent(eventType, body); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"entity_id":  entityID,
		}).Warn("failed to publish catalog event")
		n.count(eventType, "error")
		return
	}
	n.count(eventType, "ok")
}

func (n *Notifier) count(eventType, result string) {
	if n.metrics == nil {
		return
	}
	n.metrics.EventsPublishedTotal.WithLabelValues(eventType, result).Inc()
}
