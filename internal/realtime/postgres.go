package realtime

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// Channel is the Postgres NOTIFY channel carrying Change payloads.
const Channel = "kitchenflow_changes"

// PostgresNotifier announces store writes with pg_notify so that every
// process listening on Channel sees them.
type PostgresNotifier struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresNotifier(db *sql.DB, logger *slog.Logger) *PostgresNotifier {
	return &PostgresNotifier{db: db, logger: logger}
}

func (n *PostgresNotifier) Notify(ctx context.Context, table, owner string) {
	payload, err := encodeChange(Change{Table: table, Owner: owner})
	if err != nil {
		n.logger.Warn("failed to encode change", "table", table, "error", err)
		return
	}
	if _, err := n.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", Channel, payload); err != nil {
		n.logger.Warn("failed to notify change", "table", table, "owner", owner, "error", err)
	}
}

// Listen connects to dsn, LISTENs on Channel and republishes every
// notification into hub until ctx is done.
func Listen(ctx context.Context, dsn string, hub *Hub, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect listener: %w", err)
	}
	defer func() {
		if err := conn.Close(context.Background()); err != nil {
			logger.Error("failed to close listener connection", "error", err)
		}
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{Channel}.Sanitize()); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", Channel, err)
	}
	logger.Info("listening for realtime changes", "channel", Channel)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("failed to wait for notification: %w", err)
		}

		c, err := decodeChange(n.Payload)
		if err != nil {
			logger.Warn("ignoring malformed notification", "payload", n.Payload, "error", err)
			continue
		}
		hub.Publish(c)
	}
}

func encodeChange(c Change) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeChange(payload string) (Change, error) {
	var c Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Change{}, err
	}
	if c.Table == "" {
		return Change{}, errors.New("missing table")
	}
	return c, nil
}
