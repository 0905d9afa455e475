package http

import (
	"net/http"
	"strconv"

	"partypay/internal/core"
	"partypay/internal/export"
	"partypay/internal/log"
)

func (s *Server) handlePartyReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.entries.Report(r.Context(), r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// handlePartyReportPDF streams the party report as a PDF download.
func (s *Server) handlePartyReportPDF(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	report, err := s.entries.Report(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := export.PartyReportPDF(report)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "Report exported",
		log.FieldOperation, log.OpExport,
		log.FieldPartyName, name,
		"format", "pdf")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.PDFFilename(name)+`"`)
	_, _ = w.Write(data)
}

// handleExportCSV streams the entry list as CSV, honoring the same view
// parameters as the list endpoint.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	entries = core.FilterBySearch(entries, q.Get("search"))
	if due, _ := strconv.ParseBool(q.Get("dueToday")); due {
		entries = core.FilterDueToday(entries)
	}

	s.logger.InfoContext(r.Context(), "Entries exported",
		log.FieldOperation, log.OpExport,
		log.FieldCount, len(entries),
		"format", "csv")

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.CSVFilename("payment-entries")+`"`)
	_, _ = w.Write(export.EntriesCSV(entries))
}
