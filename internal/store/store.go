package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/vbonduro/kitchenflow/internal/db"
	"github.com/vbonduro/kitchenflow/internal/domain"
)

// Table names, also used as realtime channel keys.
const (
	TableShoppingItems    = "shopping_items"
	TableInventoryItems   = "inventory_items"
	TablePantryStaples    = "pantry_staples"
	TableStorePreferences = "user_store_preferences"
)

// Notifier is told about every committed change to an owner's rows.
type Notifier interface {
	Notify(ctx context.Context, table, owner string)
}

type Option func(*base)

// WithNotifier makes the store announce committed writes on n.
func WithNotifier(n Notifier) Option {
	return func(b *base) { b.notifier = n }
}

// base carries what every store needs to talk to a connection.
type base struct {
	db       *sql.DB
	dialect  db.Dialect
	notifier Notifier
}

func newBase(d *sql.DB, dialect db.Dialect, opts []Option) base {
	b := base{db: d, dialect: dialect}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) q(query string) string {
	return db.Rebind(b.dialect, query)
}

func (b *base) notify(ctx context.Context, table, owner string) {
	if b.notifier != nil {
		b.notifier.Notify(ctx, table, owner)
	}
}

// replaceOwned runs upsert inside a transaction and then deletes every row of
// table owned by owner whose id is not in keep. An empty keep deletes them all.
func (b *base) replaceOwned(ctx context.Context, table, ownerCol, owner string, keep []string, upsert func(tx *sql.Tx) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := upsert(tx); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, ownerCol)
	args := []any{owner}
	if len(keep) > 0 {
		query += fmt.Sprintf(" AND id NOT IN (%s)", db.Placeholders(len(keep)))
		for _, id := range keep {
			args = append(args, id)
		}
	}
	if _, err := tx.ExecContext(ctx, b.q(query), args...); err != nil {
		return fmt.Errorf("failed to prune %s: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	b.notify(ctx, table, owner)
	return nil
}

// requireUpserted fails an owner-guarded upsert that touched no row: the id
// exists under another owner and the whole replace must be rolled back.
func requireUpserted(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check upsert of %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("item %s: %w", id, domain.ErrOwnerConflict)
	}
	return nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}
