package httpx

import (
	"net/http"

	"github.com/retailops/pos-ui-api/internal/adapters/backend"
)

// UserHandlers proxies staff account management to the POS backend. Route
// access is already narrowed to admins by the access-control middleware.
type UserHandlers struct {
	Backend *backend.Client
}

func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	users, err := h.Backend.ListUsers(r.Context(), token, parseListQuery(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, users)
}

func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	user, err := h.Backend.GetUser(r.Context(), token, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandlers) Create(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	var req backend.UserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Backend.CreateUser(r.Context(), token, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, user)
}

func (h *UserHandlers) Update(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	var req backend.UserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Backend.UpdateUser(r.Context(), token, r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	if err := h.Backend.DeleteUser(r.Context(), token, r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
