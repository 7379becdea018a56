package httpinterface

import (
	"net/http"
)

type evidenceRequest struct {
	Hashes []string `json:"hashes"`
	Kinds  []int    `json:"kinds"`
}

func (s *Service) submitPoD(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	var req evidenceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.disputes.SubmitPoD(
		r.Context(), identity(r), orderId, req.Hashes, req.Kinds,
	); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"order_id": orderId})
}

func (s *Service) openClaim(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	var req evidenceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.disputes.OpenClaim(
		r.Context(), identity(r), orderId, req.Hashes, req.Kinds,
	); err != nil {
		writeServiceError(w, err)
		return
	}
	s.metrics.DisputesOpened.Inc()
	writeJSON(w, http.StatusOK, map[string]uint64{"order_id": orderId})
}

func (s *Service) autoResolve(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	outcome, err := s.disputes.AutoResolve(r.Context(), identity(r), orderId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.metrics.DisputesResolved.Inc()
	if outcome.Upheld {
		s.metrics.Slashes.Inc()
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Service) getDispute(w http.ResponseWriter, r *http.Request) {
	orderId, ok := orderIdParam(w, r)
	if !ok {
		return
	}
	info, err := s.disputes.GetDispute(r.Context(), orderId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
