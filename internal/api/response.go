// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

// Package api provides the HTTP surface of the Tagwise service: Chi
// routing, standardized JSON responses, and request middleware.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/dmarceau/tagwise/internal/logging"
	"github.com/dmarceau/tagwise/internal/models"
)

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// respondJSON writes a success envelope with the given payload.
func respondJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}, start time.Time) {
	resp := models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	}

	writeEnvelope(w, r, statusCode, &resp)
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	resp := models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	}

	writeEnvelope(w, r, statusCode, &resp)
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, statusCode int, resp *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		// Headers are already sent; all we can do is log.
		logging.Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("Failed to encode API response")
	}
}
