package httpx

import (
	"net/http"

	"github.com/retailops/pos-ui-api/internal/adapters/backend"
)

// BranchHandlers proxies branch CRUD to the POS backend with the caller's token.
type BranchHandlers struct {
	Backend *backend.Client
}

func (h *BranchHandlers) List(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	branches, err := h.Backend.ListBranches(r.Context(), token, parseListQuery(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, branches)
}

func (h *BranchHandlers) Get(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	branch, err := h.Backend.GetBranch(r.Context(), token, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, branch)
}

func (h *BranchHandlers) Create(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	var req backend.BranchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	branch, err := h.Backend.CreateBranch(r.Context(), token, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, branch)
}

func (h *BranchHandlers) Update(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	var req backend.BranchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	branch, err := h.Backend.UpdateBranch(r.Context(), token, r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, branch)
}

func (h *BranchHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	if err := h.Backend.DeleteBranch(r.Context(), token, r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
