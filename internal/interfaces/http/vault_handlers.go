package httpinterface

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type bondRequest struct {
	Amount uint64 `json:"amount"`
}

func (s *Service) bondDeposit(w http.ResponseWriter, r *http.Request) {
	var req bondRequest
	if !decodeBody(w, r, &req) {
		return
	}
	bond, err := s.registry.BondDeposit(r.Context(), identity(r), req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"bond": bond})
}

func (s *Service) bondWithdraw(w http.ResponseWriter, r *http.Request) {
	var req bondRequest
	if !decodeBody(w, r, &req) {
		return
	}
	bond, err := s.registry.BondWithdraw(r.Context(), identity(r), req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"bond": bond})
}

func (s *Service) getBond(w http.ResponseWriter, r *http.Request) {
	amount, locked, err := s.vault.GetStandingBond(r.Context(), chi.URLParam(r, "agent"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{
		"amount": amount,
		"locked": locked,
	})
}

func (s *Service) getEscrow(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	info, err := s.vault.GetEscrow(r.Context(), orderId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Service) getPayouts(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	payouts, err := s.vault.GetPayouts(r.Context(), orderId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payouts)
}

func (s *Service) releaseHoldback(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	amount, err := s.vault.ReleaseHoldback(r.Context(), orderId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"released": amount})
}
