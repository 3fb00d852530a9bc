package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/soup-riddle/internal/config"
	"github.com/robalobadob/soup-riddle/internal/game"
	"github.com/robalobadob/soup-riddle/internal/riddle"
	"github.com/robalobadob/soup-riddle/internal/store"
)

func testConfig() config.Config {
	return config.Config{
		Port:           "0",
		ClientOrigin:   "http://localhost:5173",
		JWTSecret:      "test_secret",
		SessionTTL:     time.Hour,
		RequestTimeout: 5 * time.Second,
		DefaultLocale:  "ja",
	}
}

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()
	lib, err := riddle.LoadLibrary("")
	require.NoError(t, err)
	return New(cfg, lib, store.NewMemoryStore(cfg.SessionTTL))
}

type reqOpt func(*http.Request)

func withToken(tok string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func do(t *testing.T, s *Server, method, path, body string, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func TestHealthAndBanner(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[map[string]any](t, rec)
	assert.Equal(t, true, health["ok"])
	assert.Equal(t, float64(0), health["sessions"])
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "POST /judge/question")
}

func TestNotFoundAndCORS(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))

	rec = do(t, s, http.MethodOptions, "/judge/question", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRiddle(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodGet, "/riddle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[riddleRes](t, rec)
	assert.Equal(t, "ja", res.Locale)
	assert.Equal(t, []string{"en", "ja"}, res.Locales)
	assert.Equal(t, riddle.Reference().Scenario().Prompt, res.Prompt)
	assert.NotContains(t, rec.Body.String(), riddle.Reference().Scenario().Solution)
	assert.Equal(t, "はい。", res.Replies["affirmative"])
	assert.Len(t, res.Replies, 4)

	rec = do(t, s, http.MethodGet, "/riddle?locale=fr", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_locale", errorCode(t, rec))
}

func TestJudgeQuestion(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		body    string
		verdict riddle.Verdict
		reply   string
	}{
		{`{"text":"Did he survive a shipwreck?","locale":"en"}`, riddle.Affirmative, "Yes."},
		{`{"text":"Did he get food poisoning?","locale":"en"}`, riddle.Negative, "No."},
		{`{"text":"Why did he order soup?","locale":"en"}`, riddle.Irrelevant, "Irrelevant."},
		{`{"text":"Did he like jazz?","locale":"en"}`, riddle.Unknown, "Unknown."},
		{`{"text":"男は遭難したことがある？"}`, riddle.Affirmative, "はい。"},
		{`{"text":""}`, riddle.Unknown, "わからない。"},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/judge/question", tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			res := decode[questionRes](t, rec)
			assert.Equal(t, tt.verdict, res.Verdict)
			assert.Equal(t, tt.reply, res.Reply)
		})
	}
}

func TestJudgeQuestion_BadRequests(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodPost, "/judge/question", `{"text":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_json", errorCode(t, rec))

	long := `{"text":"` + strings.Repeat("a", 2001) + `"}`
	rec = do(t, s, http.MethodPost, "/judge/question", long)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid", errorCode(t, rec))

	// The limit counts characters, not bytes.
	wide := `{"text":"` + strings.Repeat("遭", 2000) + `"}`
	rec = do(t, s, http.MethodPost, "/judge/question", wide)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, riddle.Affirmative, decode[questionRes](t, rec).Verdict)

	wide = `{"text":"` + strings.Repeat("遭", 2001) + `"}`
	rec = do(t, s, http.MethodPost, "/judge/question", wide)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, "/judge/question", `{"text":"x","locale":"fr"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_locale", errorCode(t, rec))
}

func TestJudgeGuess(t *testing.T) {
	s := newTestServer(t, testConfig())
	lib, err := riddle.LoadLibrary("")
	require.NoError(t, err)
	en, err := lib.Judge("en")
	require.NoError(t, err)

	rec := do(t, s, http.MethodPost, "/judge/guess",
		`{"locale":"en","text":"He realized the soup tasted different from the human flesh he ate after being shipwrecked"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[guessRes](t, rec)
	assert.True(t, res.Solved)
	assert.Contains(t, res.Reply, en.Scenario().Solution)

	rec = do(t, s, http.MethodPost, "/judge/guess", `{"locale":"en","text":"He was poisoned"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[guessRes](t, rec)
	assert.False(t, res.Solved)
	assert.Equal(t, "Not quite. Keep going.", res.Reply)
	assert.NotContains(t, rec.Body.String(), en.Scenario().Solution)
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodPost, "/session/new", `{"locale":"en"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[newSessionRes](t, rec)
	require.NotEmpty(t, created.Token)
	assert.Equal(t, created.SessionID, created.Session.ID)
	assert.Equal(t, game.ModeQuestion, created.Session.Mode)
	require.Len(t, created.Session.Messages, 1)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), sessionCookieName+"=")
	tok := withToken(created.Token)

	rec = do(t, s, http.MethodPost, "/session/send", `{"text":"Did he survive a shipwreck?"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sent := decode[sendRes](t, rec)
	require.Len(t, sent.Messages, 2)
	assert.Equal(t, game.RoleUser, sent.Messages[0].Role)
	assert.Equal(t, "Yes.", sent.Messages[1].Content)
	assert.False(t, sent.Solved)

	rec = do(t, s, http.MethodPost, "/session/mode", `{"mode":"guess"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, game.ModeGuess, decode[game.View](t, rec).Mode)

	rec = do(t, s, http.MethodPost, "/session/send",
		`{"text":"He realized the soup tasted different from the human flesh he ate after being shipwrecked"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	sent = decode[sendRes](t, rec)
	assert.True(t, sent.Solved)
	assert.Equal(t, game.ModeGuess, sent.Mode)
	assert.True(t, strings.HasPrefix(sent.Messages[1].Content, "Correct! "))

	rec = do(t, s, http.MethodGet, "/session", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[game.View](t, rec)
	assert.Len(t, view.Messages, 5)
	assert.True(t, view.Solved)

	rec = do(t, s, http.MethodDelete, "/session", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/session", "", tok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "session_expired", errorCode(t, rec))
}

func TestSession_CookieAuthAndDefaults(t *testing.T) {
	s := newTestServer(t, testConfig())

	// Empty body: default locale.
	rec := do(t, s, http.MethodPost, "/session/new", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[newSessionRes](t, rec)
	assert.Equal(t, "ja", created.Session.Locale)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	withCookie := func(r *http.Request) { r.AddCookie(cookies[0]) }

	rec = do(t, s, http.MethodPost, "/session/send", `{"text":"毒ですか？"}`, withCookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "いいえ。", decode[sendRes](t, rec).Messages[1].Content)
}

func TestSession_Errors(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodGet, "/session", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "no_session", errorCode(t, rec))

	rec = do(t, s, http.MethodGet, "/session", "", withToken("garbage"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", errorCode(t, rec))

	// A token signed with another secret is rejected.
	other := testConfig()
	other.JWTSecret = "other"
	foreign, _, err := newTestServer(t, other).signSession("abc")
	require.NoError(t, err)
	rec = do(t, s, http.MethodGet, "/session", "", withToken(foreign))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, "/session/new", `{"locale":"fr"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_locale", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, "/session/new", `{"locale":"en"}`)
	tok := withToken(decode[newSessionRes](t, rec).Token)

	rec = do(t, s, http.MethodPost, "/session/send", `{"text":"   "}`, tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "empty_input", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, "/session/mode", `{"mode":"hint"}`, tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid", errorCode(t, rec))

	rec = do(t, s, http.MethodGet, "/session", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[game.View](t, rec).Messages, 1, "rejected input leaves the transcript alone")
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 2
	s := newTestServer(t, cfg)

	body := `{"text":"Did he like jazz?","locale":"en"}`
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/judge/question", body).Code)
	}
	rec := do(t, s, http.MethodPost, "/judge/question", body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", errorCode(t, rec))

	// Another client has its own bucket.
	rec = do(t, s, http.MethodPost, "/judge/question", body, func(r *http.Request) { r.RemoteAddr = "198.51.100.7:4000" })
	require.Equal(t, http.StatusOK, rec.Code)

	// Health checks are not limited.
	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "").Code)
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.9:5555"
	assert.Equal(t, "203.0.113.9", clientKey(r))
	r.RemoteAddr = "203.0.113.9"
	assert.Equal(t, "203.0.113.9", clientKey(r))
}
