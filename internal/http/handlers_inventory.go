package httpx

import (
	"net/http"

	"github.com/retailops/pos-ui-api/internal/adapters/backend"
)

// InventoryHandlers proxies stock level reads and adjustments to the POS backend.
type InventoryHandlers struct {
	Backend *backend.Client
}

func (h *InventoryHandlers) List(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	items, err := h.Backend.ListInventory(r.Context(), token, parseListQuery(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, items)
}

func (h *InventoryHandlers) Adjust(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	var adj backend.InventoryAdjustment
	if !DecodeJSON(w, r, &adj) {
		return
	}

	item, err := h.Backend.AdjustInventory(r.Context(), token, adj)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, item)
}
