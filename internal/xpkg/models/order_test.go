package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderUpdateApply(t *testing.T) {
	o := Order{Status: StatusPending, DeliveryMethod: DeliveryHome, EstimatedDeliveryTime: "45-60 minutes"}
	status := StatusConfirmed
	pickup := DeliveryPickup

	got := OrderUpdate{Status: &status, DeliveryMethod: &pickup}.Apply(o)

	assert.Equal(t, StatusConfirmed, got.Status)
	assert.Equal(t, DeliveryPickup, got.DeliveryMethod)
	assert.Equal(t, "20-30 minutes", got.EstimatedDeliveryTime)
	assert.Equal(t, StatusPending, o.Status)
}

func TestChanges_NotificationsPerField(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	prev := Order{ID: "o1", OrderNumber: "CMD-1", UserID: "u1", Status: StatusConfirmed}
	next := prev
	next.Status = StatusPreparing
	next.Niveau = NiveauPreparing

	changes := Changes(prev, next, "admin-1", at)
	require.Len(t, changes, 2)

	msgs := UpdateMessages(next, changes)
	require.Len(t, msgs, 2)
	assert.Equal(t, RoutingOrderNiveau, msgs[0].RoutingKey())
	assert.Equal(t, RoutingOrderStatus, msgs[1].RoutingKey())

	n, ok := NotificationFor(msgs[0])
	require.True(t, ok)
	assert.Equal(t, "Niveau de commande mis à jour", n.Title)
	assert.Equal(t, "Le niveau de votre commande a été changé en : En préparation", n.Message)

	n, ok = NotificationFor(msgs[1])
	require.True(t, ok)
	assert.Equal(t, "Statut de commande mis à jour", n.Title)
	assert.Equal(t, "Le statut de votre commande a été changé en : en-préparation", n.Message)
	assert.Equal(t, "u1", n.UserID)
	assert.Equal(t, "o1", n.OrderID)

	assert.Empty(t, Changes(prev, prev, "admin-1", at))
}

func TestProductFilter(t *testing.T) {
	yes := true
	p := Product{Name: "Poulet braisé", Description: "Sauce piment", Category: "plats", Available: true}

	assert.True(t, ProductFilter{}.Keep(p))
	assert.True(t, ProductFilter{Search: "PIMENT"}.Keep(p))
	assert.False(t, ProductFilter{Category: "boissons"}.Keep(p))
	assert.True(t, ProductFilter{Available: &yes}.Keep(p))
	assert.False(t, ProductFilter{Special: &yes}.Keep(p))
}
