//go:build integration && postgres

package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blueberry/internal/xpkg/config"
	"blueberry/internal/xpkg/db"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

// openStore migrates the database named by the POSTGRES_* environment and
// empties the order tables.
func openStore(t *testing.T) *db.DB {
	t.Helper()
	_ = godotenv.Load()
	cfg, err := config.LoadConfig("config.integration.yaml")
	require.NoError(t, err)
	if cfg.DB.Password == "" {
		t.Skip("POSTGRES_PASSWORD not set; skipping Postgres integration")
	}

	mylog := logger.NewNop()
	require.NoError(t, db.Migrate(cfg.DB, false, mylog))

	ctx := context.Background()
	conn, err := db.Start(ctx, cfg.DB, mylog)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.GetConn().Exec(ctx, `TRUNCATE orders, order_status_log`)
	require.NoError(t, err)
	return conn
}

func newOrder(userID string) models.Order {
	return models.Order{
		OrderNumber:    fmt.Sprintf("CMD-%d", time.Now().UnixNano()),
		UserID:         userID,
		Items:          []models.LineItem{{ID: "poulet", Name: "Poulet DG", Price: 10, Quantity: 1}},
		Subtotal:       10,
		DeliveryFee:    2.5,
		Total:          12.5,
		DeliveryMethod: models.DeliveryPickup,
		PaymentMethod:  models.PaymentCash,
		Status:         models.StatusPending,
	}
}

func TestOrderRepo_CreateWritesFirstHistoryRow(t *testing.T) {
	repo := store.NewOrderRepo(openStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder("u1"), "storefront-service")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	require.Len(t, created.Items, 1)

	history, err := repo.History(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.FieldStatus, history[0].Field)
	assert.Equal(t, string(models.StatusPending), history[0].NewValue)

	pending, err := repo.FindPending(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, pending.ID)

	_, err = repo.FindPending(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestOrderRepo_FindPendingMatchesLegacyStatus(t *testing.T) {
	conn := openStore(t)
	repo := store.NewOrderRepo(conn)
	ctx := context.Background()

	_, err := conn.GetConn().Exec(ctx,
		`INSERT INTO orders (id, order_number, user_id, status) VALUES ('legacy', 'CMD-1', 'u2', 'En attente')`)
	require.NoError(t, err)

	pending, err := repo.FindPending(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "legacy", pending.ID)
	assert.Equal(t, models.StatusPending, pending.Status)

	list, err := repo.List(ctx, models.OrderFilter{Status: models.StatusPending})
	require.NoError(t, err)
	require.Len(t, list, 1)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.StatusPending])
}

func TestOrderRepo_UpdateGuardsTransitionsAndLogs(t *testing.T) {
	repo := store.NewOrderRepo(openStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder("u3"), "storefront-service")
	require.NoError(t, err)

	delivered := models.StatusDelivered
	_, _, _, err = repo.Update(ctx, created.ID, models.OrderUpdate{Status: &delivered}, "admin-service")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	confirmed := models.StatusConfirmed
	niveau := models.NiveauReceived
	prev, next, changes, err := repo.Update(ctx, created.ID, models.OrderUpdate{Status: &confirmed, Niveau: &niveau}, "admin-service")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, prev.Status)
	assert.Equal(t, models.StatusConfirmed, next.Status)
	assert.Len(t, changes, 2)

	history, err := repo.History(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	_, _, _, err = repo.Update(ctx, "missing", models.OrderUpdate{Status: &confirmed}, "admin-service")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestOrderRepo_ConcurrentUpdatesAreSerialised(t *testing.T) {
	repo := store.NewOrderRepo(openStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder("u4"), "storefront-service")
	require.NoError(t, err)

	confirmed := models.StatusConfirmed
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, changes, err := repo.Update(ctx, created.ID, models.OrderUpdate{Status: &confirmed}, "admin-service")
			assert.NoError(t, err)
			mu.Lock()
			total += len(changes)
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, total, "only the first writer sees a change")
	history, err := repo.History(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
