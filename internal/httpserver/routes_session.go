// internal/httpserver/routes_session.go
//
// HTTP routes for a riddle conversation. Exposes under /session:
//   - POST   /session/new  → start a session, returns token + transcript
//   - GET    /session      → current transcript and mode
//   - POST   /session/mode → switch between question and guess mode
//   - POST   /session/send → judge one line of input in the current mode
//   - DELETE /session      → drop the session
//
// Sessions live in the in-memory store only and expire after SESSION_TTL.
// Every route except /new needs the session token (bearer or cookie).

package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/soup-riddle/internal/game"
)

// ctxSessionKey is the context key type for the loaded session.
type ctxSessionKey struct{}

// mountSession registers all /session routes.
func (s *Server) mountSession(r chi.Router) {
	r.Post("/session/new", s.handleNewSession)
	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/session", s.handleGetSession)
		r.Delete("/session", s.handleDeleteSession)
		r.Post("/session/mode", s.handleSetMode)
		r.Post("/session/send", s.handleSend)
	})
}

// requireSession verifies the session token, loads the session and puts it
// into the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerOrCookie(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "no_session")
			return
		}
		sid, err := s.parseSession(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		sess, err := s.store.Get(r.Context(), sid)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "session_expired")
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *game.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*game.Session)
	return sess
}

// -----------------------------------------------------------------------------
// /session/new

type newSessionReq struct {
	Locale string `json:"locale" validate:"omitempty,max=16"`
}

type newSessionRes struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	Session   game.View `json:"session"`
}

// handleNewSession starts a conversation. The body is optional.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if err := s.decodeBody(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	j, ok := s.judgeFor(w, req.Locale)
	if !ok {
		return
	}

	sess := game.New(j)
	if err := s.store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.signSession(sess.ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign session token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setSessionCookie(w, tok, exp)
	hlog.FromRequest(r).Info().Str("session", sess.ID).Str("locale", sess.Locale).Msg("session started")

	writeJSON(w, http.StatusOK, newSessionRes{SessionID: sess.ID, Token: tok, Session: sess.Snapshot()})
}

// -----------------------------------------------------------------------------
// /session

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("session", sess.ID).Msg("delete session")
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// -----------------------------------------------------------------------------
// /session/mode

type modeReq struct {
	Mode string `json:"mode" validate:"required,oneof=question guess"`
}

// handleSetMode switches the active judge operation.
func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req modeReq
	if err := s.decodeBody(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := sessionFrom(r)
	m, err := game.ParseMode(req.Mode)
	if err == nil {
		err = sess.SetMode(m)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_mode")
		return
	}
	s.touch(r, sess)
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// -----------------------------------------------------------------------------
// /session/send

type sendReq struct {
	Text string `json:"text" validate:"max=2000"`
}

type sendRes struct {
	Messages []game.Message `json:"messages"` // [user, reply]
	Mode     game.Mode      `json:"mode"`
	Solved   bool           `json:"solved"`
}

// handleSend judges one line of input in the session's current mode.
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendReq
	if err := s.decodeBody(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := sessionFrom(r)
	msgs, err := sess.Send(req.Text)
	if errors.Is(err, game.ErrEmptyInput) {
		writeError(w, http.StatusBadRequest, "empty_input")
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("session", sess.ID).Msg("send")
		writeError(w, http.StatusInternalServerError, "send_failed")
		return
	}
	s.touch(r, sess)

	v := sess.Snapshot()
	writeJSON(w, http.StatusOK, sendRes{Messages: msgs, Mode: v.Mode, Solved: v.Solved})
}

// touch re-saves the session so its TTL restarts. Failures are logged only;
// the session is still usable in this request.
func (s *Server) touch(r *http.Request, sess *game.Session) {
	if err := s.store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("session", sess.ID).Msg("refresh session")
	}
}
