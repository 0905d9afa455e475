// Package http exposes the payment record keeper as a JSON API: entry CRUD
// with view parameters, xlsx imports, master lookups, party reports and
// CSV/PDF exports.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"partypay/internal/ledger"
	"partypay/internal/log"
	"partypay/internal/middleware/ratelimit"
	"partypay/internal/middleware/security"
	"partypay/internal/middleware/trace"
	"partypay/internal/services"
)

// Server wires the HTTP surface over the entry and import services.
type Server struct {
	http.Server

	entries  *services.EntryService
	imports  *services.ImportService
	source   services.MasterSource // optional Google Sheets source
	sessions ledger.SessionStore   // nil disables the auth gate

	limiter      *ratelimit.Limiter
	resolver     *security.ClientIPResolver
	logger       *log.Logger
	shutdownOnce sync.Once
}

// Options carries the optional collaborators.
type Options struct {
	Source   services.MasterSource
	Sessions ledger.SessionStore
}

// NewServer builds the routed server. Mutating routes sit behind the rate
// limiter and, when a session store is configured, the auth gate.
func NewServer(addr string, entries *services.EntryService, imports *services.ImportService, opts Options, logger *log.Logger) *Server {
	s := &Server{
		entries:  entries,
		imports:  imports,
		source:   opts.Source,
		sessions: opts.Sessions,
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		resolver: security.NewClientIPResolver(),
		logger:   logger.WithComponent(log.ComponentHTTP),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.Handle("GET /api/entries", http.HandlerFunc(s.handleListEntries))
	mux.Handle("POST /api/entries", s.mutating(s.handleCreateEntry))
	mux.Handle("PUT /api/entries/{id}", s.mutating(s.handleUpdateEntry))
	mux.Handle("DELETE /api/entries/{id}", s.mutating(s.handleDeleteEntry))

	mux.Handle("POST /api/imports", s.mutating(s.handleImport))
	mux.Handle("POST /api/imports/sheets", s.mutating(s.handleImportFromSheets))
	mux.HandleFunc("GET /api/masters", s.handleListMasters)
	mux.HandleFunc("GET /api/masters/lookup", s.handleLookupMaster)

	mux.HandleFunc("GET /api/parties/{name}/report", s.handlePartyReport)
	mux.HandleFunc("GET /api/parties/{name}/report.pdf", s.handlePartyReportPDF)
	mux.HandleFunc("GET /api/exports/entries.csv", s.handleExportCSV)

	mux.HandleFunc("GET /api/session", s.handleSession)
	mux.Handle("POST /api/session/register", http.HandlerFunc(s.handleRegister))

	var handler http.Handler = mux
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = trace.Middleware(s.logger, s.resolver.ExtractClientIP)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// mutating wraps write handlers with the rate limiter and the auth gate.
func (s *Server) mutating(h http.HandlerFunc) http.Handler {
	var handler http.Handler = s.requireWriter(h)
	return s.limiter.Middleware(s.resolver.ExtractClientIP)(handler)
}

// Shutdown stops the listener and the limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// The ledger backend answers or it doesn't; one cheap read decides.
	if _, err := s.entries.List(r.Context()); err != nil {
		http.Error(w, "ledger unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
