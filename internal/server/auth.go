package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/zeusync/arkanoid/internal/core/observability/log"
)

// requireToken rejects requests that do not carry the configured token,
// either as ?token= or as a bearer Authorization header. Without a configured
// token every request passes.
func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.config.Token == "" {
			next(w, r)
			return
		}

		token := r.URL.Query().Get("token")
		if token == "" {
			token, _ = strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.config.Token)) != 1 {
			s.logger.Warn("Rejected spectator", log.String("remote_addr", r.RemoteAddr), log.String("path", r.URL.Path))
			http.Error(w, ErrUnauthorized.Error(), http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
