package services_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopcatalog/internal/metrics"
	"shopcatalog/internal/models"
	"shopcatalog/internal/services"
)

func TestNotifier_Notify(t *testing.T) {
	pub := &recordingPublisher{}
	m := metrics.New()
	notifier := services.NewNotifier(pub, m)

	notifier.Notify(models.EventShopCreated, 12, &models.User{ID: 3})

	require.Len(t, pub.bodies, 1)
	var event models.CatalogEvent
	require.NoError(t, json.Unmarshal(pub.bodies[0], &event))
	assert.Equal(t, models.EventShopCreated, event.Type)
	assert.Equal(t, uint(12), event.EntityID)
	assert.Equal(t, uint(3), event.ActorID)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublishedTotal.WithLabelValues(models.EventShopCreated, "ok")))
}

func TestNotifier_PublishFailureIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	m := metrics.New()
	notifier := services.NewNotifier(pub, m)

	assert.NotPanics(t, func() { notifier.Notify(models.EventProductDeleted, 1, nil) })
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublishedTotal.WithLabelValues(models.EventProductDeleted, "error")))
}

func TestNotifier_Nil(t *testing.T) {
	var notifier *services.Notifier
	assert.NotPanics(t, func() { notifier.Notify(models.EventShopDeleted, 1, nil) })
}
