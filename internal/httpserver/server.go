// internal/httpserver/server.go
//
// HTTP server wiring for the soup riddle backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, access log, panic recovery,
//     timeouts, JSON, CORS, per-client rate limiting).
//   - Public endpoints: "/", "/health", "/riddle".
//   - Stateless judge endpoints: POST /judge/question, POST /judge/guess.
//   - Session endpoints (signed session token): /session/*.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The judge is stateless; only /session/* touches the session store.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/soup-riddle/internal/config"
	"github.com/robalobadob/soup-riddle/internal/riddle"
	"github.com/robalobadob/soup-riddle/internal/store"
)

// Server bundles router, judges, session store and configuration.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	lib      *riddle.Library
	store    store.Store
	validate *validator.Validate
	limiter  *clientLimiter
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, lib *riddle.Library, st store.Store) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		lib:      lib,
		store:    st,
		validate: validator.New(),
		limiter:  newClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                   // add X-Request-ID
	s.r.Use(chimw.RealIP)                      // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))       // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog))     // one line per request
	s.r.Use(chimw.Recoverer)                   // recover from panics
	s.r.Use(chimw.Timeout(cfg.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                   // default JSON responses
	s.r.Use(s.cors)                            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "soup-riddle",
			"endpoints": []string{
				"/health", "/riddle",
				"POST /judge/question", "POST /judge/guess",
				"POST /session/new", "GET /session", "POST /session/mode",
				"POST /session/send", "DELETE /session",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.store.Len()})
	})
	s.r.Get("/riddle", s.handleRiddle)

	s.r.Group(func(r chi.Router) {
		r.Use(s.limiter.middleware)
		s.mountJudge(r)
		s.mountSession(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Str("requestId", chimw.GetReqID(r.Context())).
		Msg("request")
}

// ------------------------------ riddle -------------------------------------

type riddleRes struct {
	Locale       string            `json:"locale"`
	Prompt       string            `json:"prompt"`
	Intro        string            `json:"intro"`
	Placeholders map[string]string `json:"placeholders"`
	Replies      map[string]string `json:"replies"`
	Locales      []string          `json:"locales"`
}

// handleRiddle returns the public half of the scenario for a locale.
// The solution is never served here.
func (s *Server) handleRiddle(w http.ResponseWriter, r *http.Request) {
	j, ok := s.judgeFor(w, r.URL.Query().Get("locale"))
	if !ok {
		return
	}
	replies := make(map[string]string, len(riddle.Verdicts))
	for _, v := range riddle.Verdicts {
		replies[string(v)] = j.Reply(v)
	}
	writeJSON(w, http.StatusOK, riddleRes{
		Locale: j.Locale(),
		Prompt: j.Scenario().Prompt,
		Intro:  j.Intro(),
		Placeholders: map[string]string{
			riddle.ModeQuestion: j.Placeholder(riddle.ModeQuestion),
			riddle.ModeGuess:    j.Placeholder(riddle.ModeGuess),
		},
		Replies: replies,
		Locales: s.lib.Locales(),
	})
}

// judgeFor resolves a locale (empty → default) and writes 400 if unknown.
func (s *Server) judgeFor(w http.ResponseWriter, locale string) (*riddle.Judge, bool) {
	if locale == "" {
		locale = s.cfg.DefaultLocale
	}
	j, err := s.lib.Judge(locale)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_locale")
		return nil, false
	}
	return j, true
}

// ------------------------------- helpers -----------------------------------

// decodeBody decodes a JSON body into v and validates it. An empty body is
// treated as "{}" when allowEmpty is set.
func (s *Server) decodeBody(r *http.Request, v any, allowEmpty bool) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return errBadJSON
		}
	}
	if err := s.validate.Struct(v); err != nil {
		return errInvalid
	}
	return nil
}

var (
	errBadJSON = errors.New("bad_json")
	errInvalid = errors.New("invalid")
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
