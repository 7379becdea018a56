package httpinterface

import (
	"net/http"

	"github.com/zeta-network/zetad/internal/core/domain"
)

func (s *Service) getParams(w http.ResponseWriter, r *http.Request) {
	params, err := s.policy.GetParams(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, params)
}

func (s *Service) setParams(w http.ResponseWriter, r *http.Request) {
	var params domain.PolicyParams
	if !decodeBody(w, r, &params) {
		return
	}
	if err := s.policy.SetParams(r.Context(), identity(r), params); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, params)
}

type roleRequest struct {
	Role     int    `json:"role"`
	Identity string `json:"identity"`
}

func (s *Service) grantRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.policy.GrantRole(r.Context(), identity(r), req.Role, req.Identity); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Service) revokeRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.policy.RevokeRole(r.Context(), identity(r), req.Role, req.Identity); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Service) renounceRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.policy.RenounceRole(r.Context(), identity(r), req.Role); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Service) pause(w http.ResponseWriter, r *http.Request) {
	if err := s.policy.Pause(r.Context(), identity(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": true})
}

func (s *Service) unpause(w http.ResponseWriter, r *http.Request) {
	if err := s.policy.Unpause(r.Context(), identity(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": false})
}

type banRequest struct {
	Address string `json:"address"`
	Banned  bool   `json:"banned"`
}

func (s *Service) banUser(w http.ResponseWriter, r *http.Request) {
	var req banRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.policy.BanUser(r.Context(), identity(r), req.Address, req.Banned); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Service) banAgent(w http.ResponseWriter, r *http.Request) {
	var req banRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.policy.BanAgent(r.Context(), identity(r), req.Address, req.Banned); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
