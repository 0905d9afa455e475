package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"partypay/internal/core"
	"partypay/internal/ledger"
	"partypay/internal/log"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", log.FieldError, err)
	}
}

// writeError maps domain and ledger errors onto HTTP statuses. Backend error
// text is sanitized before it reaches a client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	case errors.Is(err, ledger.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: ledger.SanitizeError(err)})
	case errors.Is(err, ledger.ErrUnauthorized):
		s.writeJSON(w, http.StatusUnauthorized, errorBody{Error: ledger.SanitizeError(err)})
	default:
		s.logger.ErrorContext(r.Context(), "Request failed",
			log.FieldError, err,
			log.FieldPath, r.URL.Path)
		s.writeJSON(w, http.StatusBadGateway, errorBody{Error: ledger.SanitizeError(err)})
	}
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return false
	}
	return true
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(v string) string {
	v = strings.TrimSpace(v)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, v)
}

func sanitizeEntry(e core.Entry) core.Entry {
	e.PartyName = sanitizeInput(e.PartyName)
	e.Address = sanitizeInput(e.Address)
	e.PhoneNumber = sanitizeInput(e.PhoneNumber)
	e.PANNumber = strings.ToUpper(sanitizeInput(e.PANNumber))
	e.DueAmount = sanitizeInput(e.DueAmount)
	e.Date = sanitizeInput(e.Date)
	e.Payment = sanitizeInput(e.Payment)
	e.NextPaymentDate = sanitizeInput(e.NextPaymentDate)
	e.Comments = sanitizeInput(e.Comments)
	e.EntryLocation = sanitizeInput(e.EntryLocation)
	return e
}
