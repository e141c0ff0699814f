package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

type itemsEnvelope[T any] struct {
	Items []T `json:"items"`
}

// listFor registers the device on first contact and resolves its list.
func (s *Server) listFor(r *http.Request, deviceID string) (string, error) {
	if err := s.devices.EnsureDevice(r.Context(), deviceID); err != nil {
		return "", err
	}
	return s.devices.DefaultListID(r.Context(), deviceID)
}

func (s *Server) handleGetShopping(w http.ResponseWriter, r *http.Request, deviceID string) {
	listID, err := s.listFor(r, deviceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to resolve shopping list", s.logger)
		s.logger.Error("resolve list failed", "device_id", deviceID, "error", err)
		return
	}
	items, err := s.shopping.ListByList(r.Context(), listID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to list shopping items", s.logger)
		s.logger.Error("list shopping items failed", "owner", listID, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, itemsEnvelope[domain.ShoppingItem]{Items: items}, s.logger)
}

func (s *Server) handlePutShopping(w http.ResponseWriter, r *http.Request, deviceID string) {
	var body itemsEnvelope[domain.ShoppingItem]
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid items body", s.logger)
		return
	}
	if msg := validateItems(body.Items, func(it domain.ShoppingItem) (string, string) { return it.ID, it.Name }); msg != "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, msg, s.logger)
		return
	}

	listID, err := s.listFor(r, deviceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to resolve shopping list", s.logger)
		s.logger.Error("resolve list failed", "device_id", deviceID, "error", err)
		return
	}
	if err := s.shopping.ReplaceForList(r.Context(), listID, body.Items); err != nil {
		if errors.Is(err, domain.ErrOwnerConflict) {
			writeError(w, http.StatusConflict, codeConflict, "item id is taken by another list", s.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to save shopping items", s.logger)
		s.logger.Error("replace shopping items failed", "owner", listID, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetInventory(w http.ResponseWriter, r *http.Request, deviceID string) {
	if err := s.devices.EnsureDevice(r.Context(), deviceID); err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to register device", s.logger)
		s.logger.Error("register device failed", "device_id", deviceID, "error", err)
		return
	}
	items, err := s.inventory.ListByDevice(r.Context(), deviceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to list inventory items", s.logger)
		s.logger.Error("list inventory failed", "owner", deviceID, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, itemsEnvelope[domain.InventoryItem]{Items: items}, s.logger)
}

func (s *Server) handlePutInventory(w http.ResponseWriter, r *http.Request, deviceID string) {
	var body itemsEnvelope[domain.InventoryItem]
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid items body", s.logger)
		return
	}
	if msg := validateItems(body.Items, func(it domain.InventoryItem) (string, string) { return it.ID, it.Name }); msg != "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, msg, s.logger)
		return
	}

	if err := s.devices.EnsureDevice(r.Context(), deviceID); err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to register device", s.logger)
		s.logger.Error("register device failed", "device_id", deviceID, "error", err)
		return
	}
	if err := s.inventory.ReplaceForDevice(r.Context(), deviceID, body.Items); err != nil {
		if errors.Is(err, domain.ErrOwnerConflict) {
			writeError(w, http.StatusConflict, codeConflict, "item id is taken by another device", s.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to save inventory items", s.logger)
		s.logger.Error("replace inventory failed", "owner", deviceID, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateItems returns a message for the first item without an id or name,
// or a duplicated id.
func validateItems[T any](items []T, key func(T) (id, name string)) string {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		id, name := key(it)
		switch {
		case strings.TrimSpace(id) == "":
			return "every item needs an id"
		case strings.TrimSpace(name) == "":
			return "item " + id + " needs a name"
		case seen[id]:
			return "duplicate item id " + id
		}
		seen[id] = true
	}
	return ""
}
