package service

import (
	"context"
	"errors"

	"github.com/vbonduro/kitchenflow/internal/device"
	"github.com/vbonduro/kitchenflow/internal/domain"
	"github.com/vbonduro/kitchenflow/internal/reconcile"
)

// shoppingRepository is the subset of store.ShoppingItemStore the remote
// shopping tier requires.
type shoppingRepository interface {
	ListByList(ctx context.Context, listID string) ([]domain.ShoppingItem, error)
	ReplaceForList(ctx context.Context, listID string, items []domain.ShoppingItem) error
}

// inventoryRepository is the subset of store.InventoryItemStore the remote
// inventory tier requires.
type inventoryRepository interface {
	ListByDevice(ctx context.Context, deviceID string) ([]domain.InventoryItem, error)
	ReplaceForDevice(ctx context.Context, deviceID string, items []domain.InventoryItem) error
}

// shoppingClient is the subset of backend.Client the REST shopping tier requires.
type shoppingClient interface {
	ShoppingItems(ctx context.Context) ([]domain.ShoppingItem, error)
	PutShoppingItems(ctx context.Context, items []domain.ShoppingItem) error
}

// inventoryClient is the subset of backend.Client the REST inventory tier requires.
type inventoryClient interface {
	InventoryItems(ctx context.Context) ([]domain.InventoryItem, error)
	PutInventoryItems(ctx context.Context, items []domain.InventoryItem) error
}

type listOwner interface {
	ListID(ctx context.Context) (string, error)
}

type deviceOwner interface {
	DeviceID() string
}

const (
	tierRemote = "remote"
	tierREST   = "rest"
)

// RemoteShoppingTier reads and writes the shopping list of the device's
// default list directly in the remote store.
func RemoteShoppingTier(repo shoppingRepository, owner listOwner) reconcile.Tier[domain.ShoppingItem] {
	return reconcile.Tier[domain.ShoppingItem]{Backend: &remoteShopping{repo: repo, owner: owner}}
}

type remoteShopping struct {
	repo  shoppingRepository
	owner listOwner
}

func (r *remoteShopping) Name() string { return tierRemote }

func (r *remoteShopping) listID(ctx context.Context) (string, error) {
	id, err := r.owner.ListID(ctx)
	if errors.Is(err, device.ErrNoRegistry) {
		return "", reconcile.ErrNotConfigured
	}
	return id, err
}

func (r *remoteShopping) Load(ctx context.Context) ([]domain.ShoppingItem, error) {
	id, err := r.listID(ctx)
	if err != nil {
		return nil, err
	}
	return r.repo.ListByList(ctx, id)
}

func (r *remoteShopping) Save(ctx context.Context, items []domain.ShoppingItem) error {
	id, err := r.listID(ctx)
	if err != nil {
		return err
	}
	return r.repo.ReplaceForList(ctx, id, items)
}

// RemoteInventoryTier reads and writes the device's inventory directly in the
// remote store.
func RemoteInventoryTier(repo inventoryRepository, owner deviceOwner) reconcile.Tier[domain.InventoryItem] {
	return reconcile.Tier[domain.InventoryItem]{Backend: &remoteInventory{repo: repo, owner: owner}}
}

type remoteInventory struct {
	repo  inventoryRepository
	owner deviceOwner
}

func (r *remoteInventory) Name() string { return tierRemote }

func (r *remoteInventory) Load(ctx context.Context) ([]domain.InventoryItem, error) {
	return r.repo.ListByDevice(ctx, r.owner.DeviceID())
}

func (r *remoteInventory) Save(ctx context.Context, items []domain.InventoryItem) error {
	return r.repo.ReplaceForDevice(ctx, r.owner.DeviceID(), items)
}

// RESTShoppingTier goes through the REST backend. Its write failures are
// reported to the caller.
func RESTShoppingTier(client shoppingClient) reconcile.Tier[domain.ShoppingItem] {
	return reconcile.Tier[domain.ShoppingItem]{Backend: &restShopping{client: client}, ReportWriteFailure: true}
}

type restShopping struct {
	client shoppingClient
}

func (r *restShopping) Name() string { return tierREST }

func (r *restShopping) Load(ctx context.Context) ([]domain.ShoppingItem, error) {
	return r.client.ShoppingItems(ctx)
}

func (r *restShopping) Save(ctx context.Context, items []domain.ShoppingItem) error {
	return r.client.PutShoppingItems(ctx, items)
}

// RESTInventoryTier goes through the REST backend. Its write failures are
// reported to the caller.
func RESTInventoryTier(client inventoryClient) reconcile.Tier[domain.InventoryItem] {
	return reconcile.Tier[domain.InventoryItem]{Backend: &restInventory{client: client}, ReportWriteFailure: true}
}

type restInventory struct {
	client inventoryClient
}

func (r *restInventory) Name() string { return tierREST }

func (r *restInventory) Load(ctx context.Context) ([]domain.InventoryItem, error) {
	return r.client.InventoryItems(ctx)
}

func (r *restInventory) Save(ctx context.Context, items []domain.InventoryItem) error {
	return r.client.PutInventoryItems(ctx, items)
}

// UnavailableTier stands in for a remote store that could not be opened. Every
// call fails with err so that the reconciler falls through to the next tier.
func UnavailableTier[T any](err error) reconcile.Tier[T] {
	return reconcile.Tier[T]{Backend: unavailable[T]{err: err}}
}

type unavailable[T any] struct {
	err error
}

func (u unavailable[T]) Name() string { return tierRemote }

func (u unavailable[T]) Load(context.Context) ([]T, error) { return nil, u.err }

func (u unavailable[T]) Save(context.Context, []T) error { return u.err }
