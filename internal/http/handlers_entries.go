package http

import (
	"net/http"
	"strconv"

	"partypay/internal/core"
)

// handleListEntries serves the entry list with the optional view parameters:
// search (substring on party name), dueToday (next payment due today),
// sortBy (date|partyName) and sortDir (asc|desc).
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
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
	if field := q.Get("sortBy"); field != "" {
		dir := core.SortAsc
		if q.Get("sortDir") == string(core.SortDesc) {
			dir = core.SortDesc
		}
		entries = core.SortEntries(entries, core.SortField(field), dir)
	}

	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var entry core.Entry
	if !s.decodeJSON(w, r, &entry) {
		return
	}
	entry = sanitizeEntry(entry)

	if errs := entry.FieldErrors(); len(errs) > 0 {
		s.writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: errs})
		return
	}

	created, err := s.entries.Create(r.Context(), entry)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var entry core.Entry
	if !s.decodeJSON(w, r, &entry) {
		return
	}
	entry = sanitizeEntry(entry)

	if errs := entry.FieldErrors(); len(errs) > 0 {
		s.writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: errs})
		return
	}

	updated, err := s.entries.Update(r.Context(), id, entry)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.entries.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
