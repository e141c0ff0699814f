package realtime

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHubDeliversPerTable(t *testing.T) {
	hub := newTestHub()

	shopping, cancelShopping := hub.Subscribe("shopping_items")
	defer cancelShopping()
	inventory, cancelInventory := hub.Subscribe("inventory_items")
	defer cancelInventory()

	hub.Notify(context.Background(), "shopping_items", "list-1")

	select {
	case c := <-shopping:
		assert.Equal(t, Change{Table: "shopping_items", Owner: "list-1"}, c)
	case <-time.After(time.Second):
		t.Fatal("expected a shopping change")
	}

	select {
	case c := <-inventory:
		t.Fatalf("unexpected inventory change %+v", c)
	default:
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := newTestHub()

	ch, cancel := hub.Subscribe("shopping_items")
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	// Publishing with no subscribers is a no-op.
	hub.Publish(Change{Table: "shopping_items"})
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	hub := newTestHub()

	ch, cancel := hub.Subscribe("t")
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(Change{Table: "t"})
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestHubConcurrentSubscribers(t *testing.T) {
	hub := newTestHub()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		ch, cancel := hub.Subscribe("t")
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer cancel()
			select {
			case <-ch:
			case <-time.After(time.Second):
			}
		}()
	}

	hub.Publish(Change{Table: "t", Owner: "o"})
	wg.Wait()
}

func TestChangePayloadRoundTrip(t *testing.T) {
	payload, err := encodeChange(Change{Table: "inventory_items", Owner: "dev"})
	require.NoError(t, err)

	c, err := decodeChange(payload)
	require.NoError(t, err)
	assert.Equal(t, "inventory_items", c.Table)
	assert.Equal(t, "dev", c.Owner)

	_, err = decodeChange(`{"owner":"dev"}`)
	assert.Error(t, err)
	_, err = decodeChange("not json")
	assert.Error(t, err)
}
