package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/kitchenflow/internal/db"
	"github.com/vbonduro/kitchenflow/internal/domain"
)

func TestStapleStoreCreateAndList(t *testing.T) {
	d := openTestDB(t)
	store := NewStapleStore(d, db.DialectSQLite)
	ctx := context.Background()

	rice, err := store.Create(ctx, "dev", "rice", 80)
	require.NoError(t, err)
	require.NotNil(t, rice)
	assert.NotEmpty(t, rice.ID)
	assert.Equal(t, "dev", rice.DeviceID)

	_, err = store.Create(ctx, "dev", "salt", 20)
	require.NoError(t, err)
	_, err = store.Create(ctx, "dev", "oil", 20)
	require.NoError(t, err)

	staples, err := store.ListByDevice(ctx, "dev")
	require.NoError(t, err)
	require.Len(t, staples, 3)
	assert.Equal(t, "oil", staples[0].Name)
	assert.Equal(t, "salt", staples[1].Name)
	assert.Equal(t, "rice", staples[2].Name)
}

func TestStapleStoreRejectsOutOfRangeScore(t *testing.T) {
	d := openTestDB(t)
	store := NewStapleStore(d, db.DialectSQLite)

	_, err := store.Create(context.Background(), "dev", "rice", 150)
	assert.Error(t, err)
}

func TestStapleStoreUpdateScore(t *testing.T) {
	d := openTestDB(t)
	notifier := &recordingNotifier{}
	store := NewStapleStore(d, db.DialectSQLite, WithNotifier(notifier))
	ctx := context.Background()

	rice, err := store.Create(ctx, "dev", "rice", 80)
	require.NoError(t, err)

	updated, err := store.UpdateScore(ctx, rice.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, updated.Score)
	assert.Len(t, notifier.all(), 2)

	_, err = store.UpdateScore(ctx, "missing", 30)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStapleStoreDelete(t *testing.T) {
	d := openTestDB(t)
	store := NewStapleStore(d, db.DialectSQLite)
	ctx := context.Background()

	rice, err := store.Create(ctx, "dev", "rice", 80)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, rice.ID))

	got, err := store.GetByID(ctx, rice.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, store.Delete(ctx, rice.ID), domain.ErrNotFound)
}
