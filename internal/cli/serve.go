package cli

import (
	"github.com/spf13/cobra"

	"github.com/vbonduro/kitchenflow/internal/backend"
	"github.com/vbonduro/kitchenflow/internal/db"
	"github.com/vbonduro/kitchenflow/internal/store"
	"github.com/vbonduro/kitchenflow/internal/web"
)

// NewServeCommand runs the REST backend over the SQLite database at DB_PATH.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the REST backend server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := loadConfig(opts, false)
			if err != nil {
				return err
			}
			defer cleanup()
			if addr != "" {
				cfg.ListenAddr = addr
			}

			signer, err := backend.NewSigner(cfg.AuthSecret)
			if err != nil {
				return WrapExitError(ExitCommandError, "AUTH_SECRET is required to serve", err)
			}

			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to open database", err)
			}
			defer closeDB(database, logger)

			// App only collects closers for the AI client here.
			app := &App{Config: cfg, Logger: logger}
			defer app.Close()
			assistant, err := newAssistant(cmd.Context(), app, cfg, logger)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to configure AI", err)
			}

			var server *web.Server
			shopping := store.NewShoppingItemStore(database, db.DialectSQLite)
			inventory := store.NewInventoryItemStore(database, db.DialectSQLite)
			devices := store.NewDeviceStore(database, db.DialectSQLite)
			if assistant != nil {
				server = web.NewServer(shopping, inventory, devices, signer, assistant, logger)
			} else {
				logger.Warn("no AI backend configured; AI endpoints will answer 503")
				server = web.NewServer(shopping, inventory, devices, signer, nil, logger)
			}

			return server.ListenAndServe(cmd.Context(), cfg.ListenAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides LISTEN_ADDR)")

	return cmd
}
