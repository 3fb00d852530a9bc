// internal/httpserver/routes_judge.go
//
// Stateless judge endpoints. Any front-end can call these directly without
// a session:
//   - POST /judge/question → verdict + display string
//   - POST /judge/guess    → solved flag + display string
//
// Both accept any text, including empty text; the judge is total.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/soup-riddle/internal/riddle"
)

// mountJudge registers the /judge routes.
func (s *Server) mountJudge(r chi.Router) {
	r.Route("/judge", func(r chi.Router) {
		r.Post("/question", s.handleJudgeQuestion)
		r.Post("/guess", s.handleJudgeGuess)
	})
}

// judgeReq is the payload of both judge endpoints.
type judgeReq struct {
	Text   string `json:"text" validate:"max=2000"`
	Locale string `json:"locale" validate:"omitempty,max=16"`
}

type questionRes struct {
	Locale  string         `json:"locale"`
	Verdict riddle.Verdict `json:"verdict"`
	Reply   string         `json:"reply"`
}

type guessRes struct {
	Locale string `json:"locale"`
	Solved bool   `json:"solved"`
	Reply  string `json:"reply"`
}

// handleJudgeQuestion classifies one question.
func (s *Server) handleJudgeQuestion(w http.ResponseWriter, r *http.Request) {
	var req judgeReq
	if err := s.decodeBody(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	j, ok := s.judgeFor(w, req.Locale)
	if !ok {
		return
	}
	v, rule := j.Explain(req.Text)
	hlog.FromRequest(r).Debug().Str("locale", j.Locale()).Str("verdict", string(v)).Str("rule", rule).Msg("question judged")

	writeJSON(w, http.StatusOK, questionRes{Locale: j.Locale(), Verdict: v, Reply: j.Reply(v)})
}

// handleJudgeGuess judges one guess. The solution is only revealed, inside
// the reply, when the guess is correct.
func (s *Server) handleJudgeGuess(w http.ResponseWriter, r *http.Request) {
	var req judgeReq
	if err := s.decodeBody(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	j, ok := s.judgeFor(w, req.Locale)
	if !ok {
		return
	}
	solved := j.JudgeGuess(req.Text)
	hlog.FromRequest(r).Debug().Str("locale", j.Locale()).Bool("solved", solved).Msg("guess judged")

	writeJSON(w, http.StatusOK, guessRes{Locale: j.Locale(), Solved: solved, Reply: j.GuessReply(solved)})
}
