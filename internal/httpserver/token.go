package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookieName = "soup_session"

// defaultTokenLifetime applies when sessions never expire (SESSION_TTL=0).
const defaultTokenLifetime = 14 * 24 * time.Hour

var errBadToken = errors.New("invalid token")

// signSession creates an HS256 JWT naming the session id ("sid").
// The token expires together with the session.
func (s *Server) signSession(sessionID string) (string, time.Time, error) {
	life := s.cfg.SessionTTL
	if life <= 0 {
		life = defaultTokenLifetime
	}
	now := time.Now()
	exp := now.Add(life)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sessionID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseSession verifies a token and returns its session id.
func (s *Server) parseSession(tokenStr string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errBadToken
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errBadToken
	}
	return sid, nil
}

// setSessionCookie writes the session token cookie.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, s.cookie(token, exp, 0))
}

// clearSessionCookie deletes the session token cookie.
func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", time.Time{}, -1))
}

func (s *Server) cookie(value string, exp time.Time, maxAge int) *http.Cookie {
	secure := s.cfg.Production()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
		MaxAge:   maxAge,
	}
}

// bearerOrCookie extracts a bearer token from the Authorization header or
// the session cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}
