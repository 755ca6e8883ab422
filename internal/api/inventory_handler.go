package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/store"
)

// InventoryHandler serves the admin-only catalogue endpoints.
type InventoryHandler struct {
	inventory service.InventoryService
	logger    *slog.Logger
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventory service.InventoryService, logger *slog.Logger) *InventoryHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for InventoryHandler")
	}
	return &InventoryHandler{
		inventory: inventory,
		logger:    logger.With(slog.String("component", "inventory_handler")),
	}
}

// AddItem handles POST /api/v1/items.
func (h *InventoryHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.inventory.AddItem(r.Context(), in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, itemToResponse(item))
}

// Restock handles POST /api/v1/items/{ref}/restock.
func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	ref, err := getPathItemRef(r, "ref")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req RestockRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.inventory.Restock(r.Context(), ref, req.Quantity)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to restock item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// UpdateItem handles PATCH /api/v1/items/{ref}.
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ref, err := getPathItemRef(r, "ref")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req ItemUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	update, err := req.toUpdate()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.inventory.UpdateItem(r.Context(), ref, update)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// DeleteItem handles DELETE /api/v1/items/{ref}.
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ref, err := getPathItemRef(r, "ref")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.inventory.DeleteItem(r.Context(), ref); err != nil {
		HandleAPIError(w, r, err, "Failed to delete item")
		return
	}

	requestLogger(r, h.logger).Info("item deleted", slog.String("item", ref.String()))
	w.WriteHeader(http.StatusNoContent)
}

// GetItem handles GET /api/v1/items/{ref}.
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	getItem(w, r, h.inventory.GetItem)
}

// ListItems handles GET /api/v1/items with an optional category filter.
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	listItems(w, r, h.inventory.ListItems)
}

// ListMovements handles GET /api/v1/items/{ref}/movements.
func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	ref, err := getPathItemRef(r, "ref")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	page, err := getPage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	movements, err := h.inventory.ListMovements(r.Context(), ref, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list stock movements")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, movementsToResponse(movements))
}

// getItem and listItems are shared by the inventory and sales catalogue reads.
func getItem(w http.ResponseWriter, r *http.Request, get func(ctx context.Context, ref domain.ItemRef) (*domain.Item, error)) {
	ref, err := getPathItemRef(r, "ref")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := get(r.Context(), ref)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

func listItems(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error)) {
	page, err := getPage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	filter := store.ItemFilter{Page: page}
	if raw := r.URL.Query().Get("category"); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		filter.Category = &category
	}

	items, err := list(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list items")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemsToResponse(items))
}
