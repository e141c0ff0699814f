package web

import (
	"net/http"
	"strings"
)

// authenticated rejects requests without a valid bearer token and passes the
// token's device id to h.
func (s *Server) authenticated(h func(w http.ResponseWriter, r *http.Request, deviceID string)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token", s.logger)
			return
		}
		deviceID, err := s.verifier.Verify(raw)
		if err != nil {
			s.logger.Warn("rejected token", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid token", s.logger)
			return
		}
		h(w, r, deviceID)
	})
}
