package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/saltyorg/plantapi/internal/database"
)

// Error kinds reported alongside the "erro" message
const (
	KindConnection = "connection"
	KindQuery      = "query"
	KindValidation = "validation"
	KindInternal   = "internal"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	store database.Opener
}

// New creates a new Handlers instance
func New(store database.Opener) *Handlers {
	return &Handlers{store: store}
}

// ErrorResponse is the uniform failure envelope
type ErrorResponse struct {
	Erro string `json:"erro"`
	Kind string `json:"kind"`
}

// MessageResponse carries a confirmation message
type MessageResponse struct {
	Mensagem string `json:"mensagem"`
}

// Kind classifies err for clients.
func Kind(err error) string {
	var (
		connErr       *database.ConnectionError
		queryErr      *database.QueryError
		validationErr *ValidationError
	)
	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &connErr):
		return KindConnection
	case errors.As(err, &queryErr):
		return KindQuery
	default:
		return KindInternal
	}
}

// writeJSON sends v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// jsonError sends the error envelope. Validation failures are 400, the rest 500.
func (h *Handlers) jsonError(w http.ResponseWriter, r *http.Request, err error) {
	kind := Kind(err)
	status := http.StatusInternalServerError
	if kind == KindValidation {
		status = http.StatusBadRequest
	} else {
		log.Error().
			Err(err).
			Str("kind", kind).
			Str("path", r.URL.Path).
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Msg("Request failed")
	}

	writeJSON(w, status, ErrorResponse{Erro: err.Error(), Kind: kind})
}

// jsonMessage sends a confirmation message
func (h *Handlers) jsonMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Mensagem: message})
}

// release closes a session, logging instead of failing the response
func release(session database.Session) {
	if err := session.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to release database connection")
	}
}
