// Handler helper functions: the response envelope and pagination parsing.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// Envelope is the uniform response shape. Code 0 means success; errors carry
// the HTTP status as code.
type Envelope struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// writeSuccess encodes data in the success envelope with HTTP 200.
func writeSuccess(w http.ResponseWriter, data any) {
	writeEnvelope(w, http.StatusOK, Envelope{
		Code:      0,
		Message:   "success",
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

// writeMessage encodes a data-less success envelope with a custom message.
func writeMessage(w http.ResponseWriter, message string) {
	writeEnvelope(w, http.StatusOK, Envelope{
		Code:      0,
		Message:   message,
		Timestamp: time.Now().Unix(),
	})
}

// writeError encodes an error envelope with the given HTTP status.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeEnvelope(w, statusCode, Envelope{
		Code:      statusCode,
		Message:   message,
		Timestamp: time.Now().Unix(),
	})
}

func writeEnvelope(w http.ResponseWriter, statusCode int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		http.Error(w, `{"code":500,"message":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

// paginationParams holds parsed limit and offset values.
type paginationParams struct {
	Limit  int
	Offset int
}

const (
	defaultPaginationLimit = 25
	maxPaginationLimit     = 100
)

// parsePaginationParams extracts and validates limit/offset from URL query params.
func parsePaginationParams(r *http.Request) paginationParams {
	limit := defaultPaginationLimit
	offset := 0

	if lim, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && lim > 0 {
		if lim > maxPaginationLimit {
			lim = maxPaginationLimit
		}
		limit = lim
	}

	if off, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && off >= 0 {
		offset = off
	}

	return paginationParams{Limit: limit, Offset: offset}
}
