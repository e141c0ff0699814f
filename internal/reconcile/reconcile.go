// Package reconcile serves a collection from an ordered list of storage
// tiers, falling back tier by tier and always keeping the local cache current.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrNotConfigured is returned by a tier that is deliberately absent, for
// example because its owner key cannot be resolved. It is not a failure.
var ErrNotConfigured = errors.New("tier not configured")

// Backend is one storage tier holding a whole collection.
type Backend[T any] interface {
	Name() string
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, items []T) error
}

// Tier is a remote backend and how its write failures are treated.
type Tier[T any] struct {
	Backend Backend[T]
	// ReportWriteFailure returns the tier's write failure to the caller even
	// when a later tier stored the collection.
	ReportWriteFailure bool
}

// WriteError reports the tiers that failed during Save.
type WriteError struct {
	// LocalSaved is true when the collection reached the local cache.
	LocalSaved bool
	Errs       *multierror.Error
}

func (e *WriteError) Error() string {
	var msgs []string
	for _, err := range e.Errs.WrappedErrors() {
		msgs = append(msgs, err.Error())
	}
	state := "not saved"
	if e.LocalSaved {
		state = "saved locally"
	}
	return fmt.Sprintf("failed to write collection (%s): %s", state, strings.Join(msgs, "; "))
}

func (e *WriteError) Unwrap() error {
	return e.Errs.ErrorOrNil()
}

type Reconciler[T any] struct {
	name   string
	tiers  []Tier[T]
	local  Backend[T]
	logger *slog.Logger
}

// New builds a reconciler trying tiers in order and local last.
func New[T any](name string, local Backend[T], logger *slog.Logger, tiers ...Tier[T]) *Reconciler[T] {
	return &Reconciler[T]{
		name:   name,
		tiers:  tiers,
		local:  local,
		logger: logger.With("collection", name),
	}
}

// Tiers lists the tier names in the order they are tried.
func (r *Reconciler[T]) Tiers() []string {
	names := make([]string, 0, len(r.tiers)+1)
	for _, t := range r.tiers {
		names = append(names, t.Backend.Name())
	}
	return append(names, r.local.Name())
}

// Load returns the collection from the first remote tier that answers. An
// empty remote with a non-empty local cache is a first connection: the local
// collection is written through and returned. It only fails when ctx is done.
func (r *Reconciler[T]) Load(ctx context.Context) ([]T, error) {
	for _, t := range r.tiers {
		name := t.Backend.Name()
		items, err := t.Backend.Load(ctx)
		if err != nil {
			if errors.Is(err, ErrNotConfigured) {
				r.logger.Debug("skipping tier", "tier", name)
			} else {
				r.logger.Warn("failed to load from tier", "tier", name, "error", err)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			continue
		}

		if len(items) > 0 {
			return items, nil
		}

		local := r.loadLocal(ctx)
		if len(local) == 0 {
			return items, nil
		}

		r.logger.Info("migrating local collection to remote", "tier", name, "count", len(local))
		if err := r.Save(ctx, local); err != nil {
			r.logger.Warn("failed to migrate local collection", "tier", name, "error", err)
		}
		return local, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.loadLocal(ctx), nil
}

func (r *Reconciler[T]) loadLocal(ctx context.Context) []T {
	items, err := r.local.Load(ctx)
	if err != nil {
		r.logger.Warn("failed to load local collection", "error", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Save replaces the whole collection. The first remote tier that accepts it
// wins and the result is mirrored locally; if none does, the local cache
// still receives it. A *WriteError is returned when a reporting tier failed
// or nothing could be stored.
func (r *Reconciler[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}

	var errs *multierror.Error
	report := false

	for _, t := range r.tiers {
		name := t.Backend.Name()
		err := t.Backend.Save(ctx, items)
		if err == nil {
			if lerr := r.local.Save(ctx, items); lerr != nil {
				r.logger.Warn("failed to mirror collection locally", "tier", name, "error", lerr)
			}
			return nil
		}
		if errors.Is(err, ErrNotConfigured) {
			r.logger.Debug("skipping tier", "tier", name)
			continue
		}

		r.logger.Warn("failed to save to tier", "tier", name, "count", len(items), "error", err)
		errs = multierror.Append(errs, fmt.Errorf("%s: %w", name, err))
		if t.ReportWriteFailure {
			report = true
		}
	}

	if err := r.local.Save(ctx, items); err != nil {
		r.logger.Error("failed to save collection locally", "error", err)
		errs = multierror.Append(errs, fmt.Errorf("%s: %w", r.local.Name(), err))
		return &WriteError{LocalSaved: false, Errs: errs}
	}

	if report {
		return &WriteError{LocalSaved: true, Errs: errs}
	}
	return nil
}
