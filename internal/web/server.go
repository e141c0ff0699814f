// Package web serves the REST backend: the shopping and inventory
// collections of the calling device and the AI endpoints.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

// shoppingRepository is the subset of store.ShoppingItemStore that Server requires.
type shoppingRepository interface {
	ListByList(ctx context.Context, listID string) ([]domain.ShoppingItem, error)
	ReplaceForList(ctx context.Context, listID string, items []domain.ShoppingItem) error
}

// inventoryRepository is the subset of store.InventoryItemStore that Server requires.
type inventoryRepository interface {
	ListByDevice(ctx context.Context, deviceID string) ([]domain.InventoryItem, error)
	ReplaceForDevice(ctx context.Context, deviceID string, items []domain.InventoryItem) error
}

// deviceRegistry is the subset of store.DeviceStore that Server requires.
type deviceRegistry interface {
	EnsureDevice(ctx context.Context, id string) error
	DefaultListID(ctx context.Context, deviceID string) (string, error)
}

// tokenVerifier is the subset of backend.Signer that Server requires.
type tokenVerifier interface {
	Verify(raw string) (string, error)
}

// assistant is the subset of ai.Assistant that Server requires.
type assistant interface {
	IdentifyCravingFromText(ctx context.Context, text string) (string, error)
	IdentifyCravingFromLink(ctx context.Context, link string) (string, error)
	RecipeDetails(ctx context.Context, foodName string) (*domain.RecipeDetails, error)
	ScanFridge(ctx context.Context, images []domain.Image) (*domain.FridgeSnapshot, error)
}

type Server struct {
	shopping  shoppingRepository
	inventory inventoryRepository
	devices   deviceRegistry
	verifier  tokenVerifier
	assistant assistant
	mux       *http.ServeMux
	logger    *slog.Logger
}

// NewServer builds the API. assistant may be nil, in which case the AI
// endpoints answer 503.
func NewServer(shopping shoppingRepository, inventory inventoryRepository, devices deviceRegistry, verifier tokenVerifier, assistant assistant, logger *slog.Logger) *Server {
	s := &Server{
		shopping:  shopping,
		inventory: inventory,
		devices:   devices,
		verifier:  verifier,
		assistant: assistant,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
	})

	s.mux.Handle("GET /api/shopping/items", s.authenticated(s.handleGetShopping))
	s.mux.Handle("PUT /api/shopping/items", s.authenticated(s.handlePutShopping))
	s.mux.Handle("GET /api/inventory/items", s.authenticated(s.handleGetInventory))
	s.mux.Handle("PUT /api/inventory/items", s.authenticated(s.handlePutInventory))

	s.mux.Handle("POST /api/craving/identify-from-text", s.authenticated(s.handleCravingFromText))
	s.mux.Handle("POST /api/craving/identify-from-link", s.authenticated(s.handleCravingFromLink))
	s.mux.Handle("POST /api/recipe/details", s.authenticated(s.handleRecipeDetails))
	s.mux.Handle("POST /api/scan/fridge", s.authenticated(s.handleScanFridge))
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
