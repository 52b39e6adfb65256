package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/minishop-api/shared/apperror"
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// respondError funnels every handler failure through the classifier so that
// exactly one of the taxonomy outcomes reaches the caller. System faults keep
// their detail in the log only.
func respondError(logger *zerolog.Logger, w http.ResponseWriter, err error) {
	status, message := apperror.Classify(err)

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	}

	respondJSON(w, status, map[string]string{"error": message})
}
