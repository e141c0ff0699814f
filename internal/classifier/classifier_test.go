package classifier

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

type stubPrefs struct {
	mu       sync.Mutex
	stores   map[string]domain.Store
	recorded []string
	gets     int
}

func newStubPrefs() *stubPrefs {
	return &stubPrefs{stores: make(map[string]domain.Store)}
}

func (p *stubPrefs) Record(_ context.Context, itemName string, store domain.Store) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stores[domain.Fold(itemName)] = store
	p.recorded = append(p.recorded, itemName)
}

func (p *stubPrefs) Get(_ context.Context, itemName string) (domain.Store, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gets++
	s, ok := p.stores[domain.Fold(itemName)]
	return s, ok
}

func newTestClassifier(t *testing.T, prefs preferences) *Classifier {
	t.Helper()
	kb, err := DefaultKnowledge()
	require.NoError(t, err)
	c, err := New(kb, prefs, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func TestClassifyKeywords(t *testing.T) {
	c := newTestClassifier(t, nil)
	ctx := context.Background()

	tests := []struct {
		item string
		want domain.Store
	}{
		{"老干妈", "Chinese Supermarket"},
		{"Lao Gan Ma chili crisp", "Chinese Supermarket"},
		{"kimchi", "Korean Mart"},
		{"Gochujang", "Korean Mart"},
		{"white miso paste", "Japanese Store"},
		{"coconut milk", "Southeast Asian"},
		{"pierogi", "Polish Shop"},
		{"Burrata", "Italian Deli"},
		{"ghee", "Indian Store"},
		{"tahini", "Middle Eastern"},
		{"milk", domain.StoreAny},
		{"牛奶", domain.StoreAny},
		{"mystery item", domain.StoreAny},
		{"", domain.StoreAny},
	}
	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(ctx, tt.item, ""))
		})
	}
}

func TestClassifySpecialtyPriorityOrder(t *testing.T) {
	c := newTestClassifier(t, nil)

	// 年糕 is listed for both Chinese and Japanese stores.
	assert.Equal(t, domain.Store("Chinese Supermarket"), c.Classify(context.Background(), "年糕", ""))
}

func TestClassifyHintRecordsPreference(t *testing.T) {
	prefs := newStubPrefs()
	c := newTestClassifier(t, prefs)
	ctx := context.Background()

	assert.Equal(t, domain.Store("Tesco"), c.Classify(ctx, "milk", "at tesco"))
	assert.Equal(t, []string{"milk"}, prefs.recorded)

	c.ClearCache()
	assert.Equal(t, domain.Store("Tesco"), c.Classify(ctx, "Milk", ""))
}

func TestClassifyUnknownHintFallsThrough(t *testing.T) {
	prefs := newStubPrefs()
	c := newTestClassifier(t, prefs)

	assert.Equal(t, domain.Store("Korean Mart"), c.Classify(context.Background(), "kimchi", "the corner shop"))
	assert.Empty(t, prefs.recorded)
}

func TestClassifyAliasHint(t *testing.T) {
	c := newTestClassifier(t, newStubPrefs())
	ctx := context.Background()

	assert.Equal(t, domain.Store("Chinese Supermarket"), c.Classify(ctx, "bread", "中超"))
	assert.Equal(t, domain.Store("Korean Mart"), c.Classify(ctx, "tea", "H Mart"))
	assert.Equal(t, domain.Store("Middle Eastern"), c.Classify(ctx, "rice", "arab grocer"))
}

func TestClassifyPreferenceBeatsCache(t *testing.T) {
	prefs := newStubPrefs()
	c := newTestClassifier(t, prefs)
	ctx := context.Background()

	assert.Equal(t, domain.StoreAny, c.Classify(ctx, "milk", ""))

	prefs.stores["milk"] = "Lidl"
	assert.Equal(t, domain.Store("Lidl"), c.Classify(ctx, "milk", ""))
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := newTestClassifier(t, nil)
	ctx := context.Background()

	first := c.Classify(ctx, "kimchi", "")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify(ctx, "kimchi", ""))
	}

	c.ClearCache()
	assert.Equal(t, first, c.Classify(ctx, "kimchi", ""))
}

func TestClassifyConcurrent(t *testing.T) {
	c := newTestClassifier(t, newStubPrefs())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, domain.Store("Korean Mart"), c.Classify(ctx, "kimchi", ""))
		}()
	}
	wg.Wait()
}
