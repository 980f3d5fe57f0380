package httputil

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/dozer-finance/reward-service/internal/logging"
)

// Recoverer converts panics below it into structured 500 responses instead of
// tearing down the connection. Claim routes answer with the JSON envelope,
// snapshot routes with plain text, so the boundary is parameterised on the
// response style.
type Recoverer struct {
	logger *logging.Logger
	plain  bool
}

// NewRecoverer creates a recover boundary answering in the claim JSON style.
func NewRecoverer(logger *logging.Logger) *Recoverer {
	return &Recoverer{logger: logger}
}

// NewPlainRecoverer creates a recover boundary answering in plain text.
func NewPlainRecoverer(logger *logging.Logger) *Recoverer {
	return &Recoverer{logger: logger, plain: true}
}

// Handler returns the recover middleware handler.
func (rec *Recoverer) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				rec.logger.WithContext(r.Context()).
					WithField("panic", fmt.Sprintf("%v", v)).
					WithField("stack", string(debug.Stack())).
					Error("panic recovered in handler")

				if rec.plain {
					WritePlain(w, http.StatusInternalServerError, "Internal error")
					return
				}
				WriteMessage(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
