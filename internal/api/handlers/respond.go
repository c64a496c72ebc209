package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/luwen/surgelens/internal/contracts"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps the analysis error taxonomy onto HTTP status
// codes: caller mistakes to 4xx, provider trouble to 502.
func (h *AnalysisHandler) respondDomainError(w http.ResponseWriter, err error) {
	var confErr *contracts.ConfigurationError
	var symbolsErr *contracts.InsufficientSymbolsError
	var dataErr *contracts.InsufficientDataError
	var integrityErr *contracts.DataIntegrityError
	var unavailableErr *contracts.DataUnavailableError
	var batchErr *contracts.BatchFailureError

	switch {
	case errors.As(err, &confErr), errors.As(err, &symbolsErr):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &dataErr), errors.As(err, &integrityErr):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &unavailableErr):
		respondError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &batchErr):
		respondJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":    err.Error(),
			"failures": batchErr.Failures,
		})
	default:
		h.logger.WithError(err).Error("Unclassified analysis error")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
