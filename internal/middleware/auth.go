// Package middleware provides HTTP middleware for the reward service.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/dozer-finance/reward-service/internal/errors"
	"github.com/dozer-finance/reward-service/internal/httputil"
	"github.com/dozer-finance/reward-service/internal/logging"
)

// APIKeyHeader is the header carrying the shared secret for claim endpoints.
const APIKeyHeader = "X-Api-Key"

// KeyQueryParam is the query parameter fallback for the shared secret.
const KeyQueryParam = "key"

// Gate authenticates requests against a shared secret. It runs before any
// store or backend call, so a rejected request performs no downstream work.
type Gate struct {
	key    []byte
	logger *logging.Logger
}

// NewGate creates a new authorization gate for the given secret.
func NewGate(key string, logger *logging.Logger) *Gate {
	return &Gate{
		key:    []byte(key),
		logger: logger,
	}
}

// credential extracts the presented secret from the request: the X-Api-Key
// header when set, otherwise the key query parameter.
func (g *Gate) credential(r *http.Request) []byte {
	if v := r.Header.Get(APIKeyHeader); v != "" {
		return []byte(v)
	}
	return []byte(r.URL.Query().Get(KeyQueryParam))
}

func (g *Gate) allow(r *http.Request) bool {
	if len(g.key) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(g.credential(r), g.key) == 1
}

// RequireClaimKey gates the claim endpoints. A mismatch is reported the way
// the claim API reports every rejection: HTTP 400 with a JSON message body.
func (g *Gate) RequireClaimKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.allow(r) {
			g.logRejection(r)
			serviceErr := errors.BadRequest("Not Authorized !")
			httputil.WriteMessage(w, serviceErr.HTTPStatus, serviceErr.Message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCronKey gates the snapshot endpoints, which are driven by an
// external scheduler and answer in plain text.
func (g *Gate) RequireCronKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.allow(r) {
			g.logRejection(r)
			serviceErr := errors.Unauthorized("Not Authorized !")
			httputil.WritePlain(w, serviceErr.HTTPStatus, serviceErr.Message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Gate) logRejection(r *http.Request) {
	g.logger.LogSecurityEvent(r.Context(), "auth_rejected", map[string]interface{}{
		"path":   r.URL.Path,
		"method": r.Method,
		"remote": r.RemoteAddr,
	})
}
