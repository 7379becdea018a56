package httpinterface

import (
	"net/http"

	"github.com/zeta-network/zetad/internal/core/application"
)

func (s *Service) createOrder(w http.ResponseWriter, r *http.Request) {
	var intent application.OrderIntent
	if !decodeBody(w, r, &intent) {
		return
	}
	info, err := s.orders.CreateOrderIntent(r.Context(), identity(r), intent)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.metrics.OrdersCreated.Inc()
	writeJSON(w, http.StatusCreated, info)
}

func (s *Service) listOrders(w http.ResponseWriter, r *http.Request) {
	if user := r.URL.Query().Get("user"); user != "" {
		infos, err := s.orders.ListOrdersForUser(r.Context(), user)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, infos)
		return
	}
	infos, err := s.orders.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Service) getOrder(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	info, err := s.orders.GetOrder(r.Context(), orderId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Service) commitQuote(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	var req struct {
		CommitHash string `json:"commit_hash"`
		Ttl        int64  `json:"ttl"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.orders.CommitQuote(
		r.Context(), identity(r), orderId, req.CommitHash, req.Ttl,
	); err != nil {
		writeServiceError(w, err)
		return
	}
	s.metrics.QuotesCommitted.Inc()
	writeJSON(w, http.StatusOK, req)
}

func (s *Service) revealQuote(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	var req struct {
		FeeTotal     uint64 `json:"fee_total"`
		HoldbackBps  uint16 `json:"holdback_bps"`
		MicrobondBps uint16 `json:"microbond_bps"`
		EtaHours     uint32 `json:"eta_hours"`
		Salt         string `json:"salt"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.orders.RevealQuote(
		r.Context(), identity(r), orderId,
		req.FeeTotal, req.HoldbackBps, req.MicrobondBps, req.EtaHours, req.Salt,
	); err != nil {
		writeServiceError(w, err)
		return
	}
	s.metrics.QuotesRevealed.Inc()
	writeJSON(w, http.StatusOK, map[string]uint64{"order_id": orderId})
}

func (s *Service) autoSelect(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	winner, err := s.orders.AutoSelect(r.Context(), identity(r), orderId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"agent": winner})
}

func (s *Service) ackSelect(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	if err := s.orders.AckSelect(r.Context(), identity(r), orderId); err != nil {
		writeServiceError(w, err)
		return
	}
	s.metrics.EscrowsLocked.Inc()
	writeJSON(w, http.StatusOK, map[string]uint64{"order_id": orderId})
}

func (s *Service) userFund(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount uint64 `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.orders.UserFund(r.Context(), identity(r), orderId, req.Amount); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"order_id": orderId})
}

func (s *Service) markCompleted(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	if err := s.orders.MarkCompleted(r.Context(), identity(r), orderId); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"order_id": orderId})
}

func (s *Service) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	if err := s.orders.Cancel(r.Context(), identity(r), orderId); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"order_id": orderId})
}
