package httpx

import (
	"net/http"

	"github.com/retailops/pos-ui-api/internal/adapters/backend"
)

// ReferralHandlers proxies referral tracking to the POS backend.
type ReferralHandlers struct {
	Backend *backend.Client
}

func (h *ReferralHandlers) List(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	referrals, err := h.Backend.ListReferrals(r.Context(), token, parseListQuery(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, referrals)
}

func (h *ReferralHandlers) Create(w http.ResponseWriter, r *http.Request) {
	token, ok := requestToken(w, r)
	if !ok {
		return
	}

	var req backend.ReferralRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	referral, err := h.Backend.CreateReferral(r.Context(), token, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, referral)
}
