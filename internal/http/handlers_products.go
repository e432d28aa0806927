package httpx

import (
	"net/http"

	"github.com/retailops/pos-ui-api/internal/adapters/backend"
)

// ProductHandlers proxies product and batch operations to the POS backend.
// Batches hang off products in the catalog, so they live here rather than in
// their own handler set.
type ProductHandlers struct {
	Backend *backend.Client
}

func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	products, err := h.Backend.ListProducts(r.Context(), token, parseListQuery(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, products)
}

func (h *ProductHandlers) Get(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	product, err := h.Backend.GetProduct(r.Context(), token, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, product)
}

func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	var req backend.ProductRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	product, err := h.Backend.CreateProduct(r.Context(), token, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, product)
}

func (h *ProductHandlers) Update(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	var req backend.ProductRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	product, err := h.Backend.UpdateProduct(r.Context(), token, r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, product)
}

func (h *ProductHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	if err := h.Backend.DeleteProduct(r.Context(), token, r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandlers) ListBatches(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	batches, err := h.Backend.ListBatches(r.Context(), token, parseListQuery(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, batches)
}

func (h *ProductHandlers) CreateBatch(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	var req backend.BatchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	batch, err := h.Backend.CreateBatch(r.Context(), token, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, batch)
}
