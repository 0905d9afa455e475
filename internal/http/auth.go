package http

import (
	"net/http"
	"strings"

	"partypay/internal/ledger"
	"partypay/internal/log"
)

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// requireWriter gates mutations behind the session store. Without one the
// deployment is single-user and every caller may write. The caller token is
// always attached to the context so the remote backend can forward it.
func (s *Server) requireWriter(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		r = r.WithContext(ledger.ContextWithToken(r.Context(), token))

		if s.sessions == nil {
			next(w, r)
			return
		}

		if token == "" {
			s.writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
			return
		}
		profile, err := s.sessions.Profile(r.Context(), token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if !profile.Role.CanWrite() {
			s.logger.WarnContext(r.Context(), "Write rejected for read-only caller",
				log.FieldPath, r.URL.Path,
				"role", string(profile.Role))
			s.writeJSON(w, http.StatusForbidden, errorBody{Error: "insufficient permissions"})
			return
		}

		next(w, r)
	}
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "sessions not enabled"})
		return
	}
	token := bearerToken(r)
	if token == "" {
		s.writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return
	}
	profile, err := s.sessions.Profile(r.Context(), token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "sessions not enabled"})
		return
	}
	token := bearerToken(r)
	if token == "" {
		s.writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return
	}

	var profile ledger.UserProfile
	if !s.decodeJSON(w, r, &profile) {
		return
	}
	profile.DisplayName = sanitizeInput(profile.DisplayName)

	registered, err := s.sessions.Register(r.Context(), token, profile)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, registered)
}
