package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/plantapi/internal/rowjson"
)

const (
	pingMessage          = "API running"
	recordCreatedMessage = "record created"
	tablesCreatedMessage = "tables created"

	maxBodyBytes = 1 << 20
)

// Ping reports that the process is up. It never touches the store.
func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"msg": pingMessage})
}

// ListProduction handles GET /producao
func (h *Handlers) ListProduction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.store.Acquire(ctx)
	if err != nil {
		h.jsonError(w, r, err)
		return
	}
	defer release(session)

	rows, err := session.ListProduction(ctx)
	if err != nil {
		h.jsonError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rowjson.SerializeAll(rows))
}

// ListAnnualShipments handles GET /expedicao_anual
func (h *Handlers) ListAnnualShipments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.store.Acquire(ctx)
	if err != nil {
		h.jsonError(w, r, err)
		return
	}
	defer release(session)

	rows, err := session.ListAnnualShipments(ctx)
	if err != nil {
		h.jsonError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rowjson.SerializeAll(rows))
}

// CreateAnnualShipment handles POST /registro_expedicao.
// The body is validated before a connection is acquired.
func (h *Handlers) CreateAnnualShipment(w http.ResponseWriter, r *http.Request) {
	var req ShipmentRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			h.jsonError(w, r, &ValidationError{Message: msgRequiredFields, Err: err})
			return
		}
		h.jsonError(w, r, &ValidationError{Message: msgInvalidBody, Err: err})
		return
	}

	month, value, err := req.Validate()
	if err != nil {
		h.jsonError(w, r, err)
		return
	}

	ctx := r.Context()

	session, err := h.store.Acquire(ctx)
	if err != nil {
		h.jsonError(w, r, err)
		return
	}
	defer release(session)

	if err := session.InsertAnnualShipment(ctx, month, value); err != nil {
		h.jsonError(w, r, err)
		return
	}

	log.Info().Str("month", month).Float64("value", value).Msg("Annual shipment created")
	h.jsonMessage(w, http.StatusCreated, recordCreatedMessage)
}

// InitDB handles GET /initdb. Creating the tables is idempotent.
func (h *Handlers) InitDB(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.store.Acquire(ctx)
	if err != nil {
		h.jsonError(w, r, err)
		return
	}
	defer release(session)

	if err := session.InitSchema(ctx); err != nil {
		h.jsonError(w, r, err)
		return
	}

	h.jsonMessage(w, http.StatusOK, tablesCreatedMessage)
}
