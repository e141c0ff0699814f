// Package service is the single read/write surface for the shopping list,
// inventory, pantry staples and cravings. Callers never learn which storage
// tier answered.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/kitchenflow/internal/classifier"
	"github.com/vbonduro/kitchenflow/internal/domain"
	"github.com/vbonduro/kitchenflow/internal/realtime"
	"github.com/vbonduro/kitchenflow/internal/reconcile"
)

var (
	// ErrRemoteUnavailable is returned by operations that only the remote
	// store can serve.
	ErrRemoteUnavailable = errors.New("remote store is not configured")
	// ErrAssistantUnavailable is returned when neither the REST backend nor an
	// AI model is configured.
	ErrAssistantUnavailable = errors.New("ai assistant is not configured")
	// ErrRealtimeUnavailable is returned by the watch operations when no change
	// source is configured.
	ErrRealtimeUnavailable = errors.New("realtime changes are not configured")
)

// ItemClassifier is the subset of classifier.Classifier that KitchenService requires.
type ItemClassifier interface {
	Classify(ctx context.Context, itemName, hint string) domain.Store
	Knowledge() *classifier.KnowledgeBase
}

// StapleRepository is the subset of store.StapleStore that KitchenService requires.
type StapleRepository interface {
	Create(ctx context.Context, deviceID, name string, score int) (*domain.PantryStaple, error)
	GetByID(ctx context.Context, id string) (*domain.PantryStaple, error)
	ListByDevice(ctx context.Context, deviceID string) ([]domain.PantryStaple, error)
	UpdateScore(ctx context.Context, id string, score int) (*domain.PantryStaple, error)
	Delete(ctx context.Context, id string) error
}

// CravingRepository holds the cravings collection. localcache.Collection
// satisfies it.
type CravingRepository interface {
	Load(ctx context.Context) ([]domain.Craving, error)
	Save(ctx context.Context, items []domain.Craving) error
}

// Identity is the subset of device.Provider that KitchenService requires.
type Identity interface {
	DeviceID() string
	ListID(ctx context.Context) (string, error)
}

// Assistant answers the AI questions. Both backend.Client and ai.Assistant
// satisfy it.
type Assistant interface {
	IdentifyCravingFromText(ctx context.Context, text string) (string, error)
	IdentifyCravingFromLink(ctx context.Context, link string) (string, error)
	RecipeDetails(ctx context.Context, foodName string) (*domain.RecipeDetails, error)
	ScanFridge(ctx context.Context, images []domain.Image) (*domain.FridgeSnapshot, error)
}

// ChangeSource is the subset of realtime.Hub that KitchenService requires.
type ChangeSource interface {
	Subscribe(table string) (<-chan realtime.Change, func())
}

// Deps wires a KitchenService. Staples, Assistant and Changes may be left
// nil; the operations depending on them then report that they are
// unavailable.
type Deps struct {
	Shopping   *reconcile.Reconciler[domain.ShoppingItem]
	Inventory  *reconcile.Reconciler[domain.InventoryItem]
	Cravings   CravingRepository
	Classifier ItemClassifier
	Staples    StapleRepository
	Identity   Identity
	Assistant  Assistant
	Changes    ChangeSource
	Logger     *slog.Logger
}

type KitchenService struct {
	shopping   *reconcile.Reconciler[domain.ShoppingItem]
	inventory  *reconcile.Reconciler[domain.InventoryItem]
	cravings   CravingRepository
	classifier ItemClassifier
	staples    StapleRepository
	identity   Identity
	assistant  Assistant
	changes    ChangeSource
	logger     *slog.Logger

	now   func() time.Time
	newID func() string
}

func NewKitchenService(d Deps) *KitchenService {
	return &KitchenService{
		shopping:   d.Shopping,
		inventory:  d.Inventory,
		cravings:   d.Cravings,
		classifier: d.Classifier,
		staples:    d.Staples,
		identity:   d.Identity,
		assistant:  d.Assistant,
		changes:    d.Changes,
		logger:     d.Logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (s *KitchenService) timestamp() int64 {
	return s.now().UnixMilli()
}
