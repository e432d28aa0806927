package httpx

import (
	"net/http"

	"github.com/retailops/pos-ui-api/internal/adapters/backend"
)

// OrderHandlers proxies order operations to the POS backend. Orders never get
// deleted, only moved through statuses.
type OrderHandlers struct {
	Backend *backend.Client
}

func (h *OrderHandlers) List(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	orders, err := h.Backend.ListOrders(r.Context(), token, parseListQuery(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, orders)
}

func (h *OrderHandlers) Get(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	order, err := h.Backend.GetOrder(r.Context(), token, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, order)
}

func (h *OrderHandlers) Create(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	var req backend.OrderRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	order, err := h.Backend.CreateOrder(r.Context(), token, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, order)
}

func (h *OrderHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	var req backend.OrderStatusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	order, err := h.Backend.UpdateOrderStatus(r.Context(), token, r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, order)
}
