package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/kitchenflow/internal/ai"
	"github.com/vbonduro/kitchenflow/internal/ai/claude"
	"github.com/vbonduro/kitchenflow/internal/ai/gemini"
	"github.com/vbonduro/kitchenflow/internal/ai/ollama"
	"github.com/vbonduro/kitchenflow/internal/backend"
	"github.com/vbonduro/kitchenflow/internal/classifier"
	"github.com/vbonduro/kitchenflow/internal/config"
	"github.com/vbonduro/kitchenflow/internal/db"
	"github.com/vbonduro/kitchenflow/internal/device"
	"github.com/vbonduro/kitchenflow/internal/domain"
	"github.com/vbonduro/kitchenflow/internal/localcache"
	"github.com/vbonduro/kitchenflow/internal/preference"
	"github.com/vbonduro/kitchenflow/internal/realtime"
	"github.com/vbonduro/kitchenflow/internal/reconcile"
	"github.com/vbonduro/kitchenflow/internal/service"
	"github.com/vbonduro/kitchenflow/internal/store"
)

// App is everything a client command needs, wired from one Config.
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Service     *service.KitchenService
	Classifier  *classifier.Classifier
	Preferences *preference.Adapter
	Device      *device.Provider

	closers []func()
}

// Close releases the app's connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) onClose(f func()) {
	a.closers = append(a.closers, f)
}

// NewApp wires the facade: the local cache always, the remote store when a
// remote driver is configured, the REST backend when enabled.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}
	ok := false
	defer func() {
		if !ok {
			app.Close()
		}
	}()

	cache, err := localcache.New(cfg.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open local cache: %w", err)
	}

	strategy := cfg.Strategy()
	hub := realtime.NewHub(logger)

	// An unreachable remote store is a tier failure, not a startup failure:
	// the other tiers and the local cache keep serving.
	var (
		remote    *remoteStores
		remoteErr error
	)
	if strategy.RemoteDirect {
		remote, remoteErr = openRemote(ctx, app, cfg, hub, logger)
		if remoteErr != nil {
			logger.Warn("remote store unavailable, falling back", "driver", cfg.RemoteDriver, "error", remoteErr)
		}
	}

	if remote != nil {
		app.Device = device.NewProvider(cache, remote.devices, logger)
		app.Preferences = preference.New(remote.preferences, app.Device, logger)
	} else {
		app.Device = device.NewProvider(cache, nil, logger)
		app.Preferences = preference.New(nil, app.Device, logger)
	}

	kb, err := loadKnowledge(cfg.KnowledgePath)
	if err != nil {
		return nil, err
	}
	app.Classifier, err = classifier.New(kb, app.Preferences, cfg.ClassifierCacheSize, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	var (
		shoppingTiers  []reconcile.Tier[domain.ShoppingItem]
		inventoryTiers []reconcile.Tier[domain.InventoryItem]
		assistant      service.Assistant
	)
	switch {
	case remote != nil:
		shoppingTiers = append(shoppingTiers, service.RemoteShoppingTier(remote.shopping, app.Device))
		inventoryTiers = append(inventoryTiers, service.RemoteInventoryTier(remote.inventory, app.Device))
	case remoteErr != nil:
		shoppingTiers = append(shoppingTiers, service.UnavailableTier[domain.ShoppingItem](remoteErr))
		inventoryTiers = append(inventoryTiers, service.UnavailableTier[domain.InventoryItem](remoteErr))
	}
	if strategy.Backend {
		client, err := newBackendClient(cfg, app.Device, logger)
		if err != nil {
			return nil, err
		}
		shoppingTiers = append(shoppingTiers, service.RESTShoppingTier(client))
		inventoryTiers = append(inventoryTiers, service.RESTInventoryTier(client))
		assistant = client
	} else {
		a, err := newAssistant(ctx, app, cfg, logger)
		if err != nil {
			return nil, err
		}
		if a != nil {
			assistant = a
		}
	}

	deps := service.Deps{
		Shopping:   reconcile.New("shopping", localcache.NewCollection[domain.ShoppingItem](cache, localcache.KeyShopping), logger, shoppingTiers...),
		Inventory:  reconcile.New("inventory", localcache.NewCollection[domain.InventoryItem](cache, localcache.KeyInventory), logger, inventoryTiers...),
		Cravings:   localcache.NewCollection[domain.Craving](cache, localcache.KeyCravings),
		Classifier: app.Classifier,
		Identity:   app.Device,
		Assistant:  assistant,
		Logger:     logger,
	}
	if remote != nil {
		deps.Staples = remote.staples
		deps.Changes = hub
	}
	app.Service = service.NewKitchenService(deps)

	ok = true
	return app, nil
}

type remoteStores struct {
	devices     *store.DeviceStore
	shopping    *store.ShoppingItemStore
	inventory   *store.InventoryItemStore
	staples     *store.StapleStore
	preferences *store.PreferenceStore
}

// openRemote connects the remote store. Writes are announced through the hub
// directly for SQLite, and through NOTIFY for Postgres so that other processes
// see them too.
func openRemote(ctx context.Context, app *App, cfg *config.Config, hub *realtime.Hub, logger *slog.Logger) (*remoteStores, error) {
	dialect := db.Dialect(cfg.RemoteDriver)
	conn, err := db.OpenDialect(dialect, cfg.RemoteDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote store: %w", err)
	}
	app.onClose(func() { closeDB(conn, logger) })

	var notifier store.Notifier = hub
	if dialect == db.DialectPostgres {
		notifier = realtime.NewPostgresNotifier(conn, logger)

		listenCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := realtime.Listen(listenCtx, cfg.RemoteDSN, hub, logger); err != nil {
				logger.Warn("realtime listener stopped", "error", err)
			}
		}()
		app.onClose(func() {
			cancel()
			<-done
		})
	}

	opt := store.WithNotifier(notifier)
	return &remoteStores{
		devices:     store.NewDeviceStore(conn, dialect),
		shopping:    store.NewShoppingItemStore(conn, dialect, opt),
		inventory:   store.NewInventoryItemStore(conn, dialect, opt),
		staples:     store.NewStapleStore(conn, dialect, opt),
		preferences: store.NewPreferenceStore(conn, dialect),
	}, nil
}

func closeDB(conn *sql.DB, logger *slog.Logger) {
	if err := conn.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}

func loadKnowledge(path string) (*classifier.KnowledgeBase, error) {
	if path == "" {
		kb, err := classifier.DefaultKnowledge()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in knowledge base: %w", err)
		}
		return kb, nil
	}
	kb, err := classifier.LoadKnowledge(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base %s: %w", path, err)
	}
	return kb, nil
}

func newBackendClient(cfg *config.Config, id *device.Provider, logger *slog.Logger) (*backend.Client, error) {
	opts := []backend.Option{
		backend.WithTimeout(cfg.BackendTimeout),
		backend.WithLogger(logger),
	}
	if cfg.AuthSecret != "" {
		signer, err := backend.NewSigner(cfg.AuthSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to create token signer: %w", err)
		}
		opts = append(opts, backend.WithAuth(signer, id))
	}
	return backend.New(cfg.BackendURL, opts...), nil
}

var errMissingAPIKey = errors.New("api key is required")

// newModel returns the generative model named by cfg.AIBackend, or nil when
// none is configured.
func newModel(ctx context.Context, app *App, cfg *config.Config, logger *slog.Logger) (ai.Model, error) {
	switch cfg.AIBackend {
	case config.AIClaude:
		if cfg.ClaudeAPIKey == "" {
			return nil, fmt.Errorf("CLAUDE_API_KEY: %w", errMissingAPIKey)
		}
		logger.Info("using Claude model", "model", cfg.ClaudeModel)
		return claude.New(cfg.ClaudeAPIKey, cfg.ClaudeModel), nil
	case config.AIGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY: %w", errMissingAPIKey)
		}
		m, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		app.onClose(func() {
			if err := m.Close(); err != nil {
				logger.Error("failed to close gemini client", "error", err)
			}
		})
		logger.Info("using Gemini model", "model", cfg.GeminiModel)
		return m, nil
	case config.AIOllama:
		logger.Info("using Ollama model", "model", cfg.OllamaModel, "host", cfg.OllamaHost)
		return ollama.New(cfg.OllamaHost, cfg.OllamaModel), nil
	default:
		return nil, nil
	}
}

func newAssistant(ctx context.Context, app *App, cfg *config.Config, logger *slog.Logger) (*ai.Assistant, error) {
	model, err := newModel(ctx, app, cfg, logger)
	if err != nil || model == nil {
		return nil, err
	}
	return ai.NewAssistant(model, nil, logger), nil
}
