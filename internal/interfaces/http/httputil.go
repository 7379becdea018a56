package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/zeta-network/zetad/internal/core/application"
	"github.com/zeta-network/zetad/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps domain and application errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrBannedActor):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrPaused):
		status = http.StatusServiceUnavailable
	case errors.Is(err, application.ErrOrderNotFound),
		errors.Is(err, application.ErrEscrowNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrAlreadyFinalized),
		errors.Is(err, domain.ErrWindowNotElapsed),
		errors.Is(err, domain.ErrWindowExpired),
		errors.Is(err, domain.ErrCommitExpired):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrCommitMismatch),
		errors.Is(err, domain.ErrAmountMismatch),
		errors.Is(err, domain.ErrInvalidBps),
		errors.Is(err, domain.ErrInvalidEvidence),
		errors.Is(err, domain.ErrInvalidSalt),
		errors.Is(err, domain.ErrAgentNotEligible),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientUnlockedBond),
		errors.Is(err, application.ErrNoQuotes):
		status = http.StatusBadRequest
	}
	writeError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func orderIdParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}
