package httpinterface

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type agentRequest struct {
	Agent string `json:"agent"`
}

func (s *Service) whitelist(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.registry.Whitelist(r.Context(), identity(r), req.Agent); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Service) unlist(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.registry.Unlist(r.Context(), identity(r), req.Agent); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Service) setRisk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Agent   string `json:"agent"`
		RiskBps uint16 `json:"risk_bps"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.registry.SetRisk(r.Context(), identity(r), req.Agent, req.RiskBps); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Service) setFeeAnchor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cid string `json:"cid"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.registry.SetFeeAnchor(r.Context(), identity(r), req.Cid); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Service) getAgent(w http.ResponseWriter, r *http.Request) {
	info, err := s.registry.GetAgent(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Service) listAgents(w http.ResponseWriter, r *http.Request) {
	infos, err := s.registry.ListAgents(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}
