package http

import (
	"errors"
	"io"
	"net/http"

	"partypay/internal/excel"
	"partypay/internal/log"
)

// maxImportSize caps uploaded spreadsheets at 10 MiB.
const maxImportSize = 10 << 20

// handleImport accepts a multipart upload under the "file" field and runs
// the reconciliation pipeline on it.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "expected a multipart upload"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing \"file\" field"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "failed to read upload"})
		return
	}

	s.logger.InfoContext(r.Context(), "Import upload received",
		log.FieldOperation, log.OpImport,
		"filename", header.Filename,
		"size", len(data))

	outcome, err := s.imports.ImportFile(r.Context(), data)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if !isParseError(err) {
			status = http.StatusBadRequest
		}
		body := errorBody{Error: err.Error()}
		if outcome != nil && len(outcome.Warnings) > 0 {
			s.writeJSON(w, status, struct {
				errorBody
				Warnings []string `json:"warnings"`
			}{body, outcome.Warnings})
			return
		}
		s.writeJSON(w, status, body)
		return
	}

	s.writeJSON(w, http.StatusOK, outcome)
}

func isParseError(err error) bool {
	return errors.Is(err, excel.ErrNoData) ||
		errors.Is(err, excel.ErrNoWorksheet) ||
		errors.Is(err, excel.ErrMissingPartyColumn) ||
		errors.Is(err, excel.ErrNoValidRows)
}

// handleImportFromSheets triggers an import from the configured Google Sheet.
func (s *Server) handleImportFromSheets(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "no sheet source configured"})
		return
	}

	outcome, err := s.imports.ImportFromSource(r.Context(), s.source)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleListMasters(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.imports.Masters())
}

// handleLookupMaster resolves one party by name, falling back to the ledger
// when the local directory misses.
func (s *Server) handleLookupMaster(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "query parameter \"name\" is required"})
		return
	}

	master, ok, err := s.imports.LookupMaster(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "party not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, master)
}
