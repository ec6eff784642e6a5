package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const HeaderSessionID = "X-Session-Id"

// maxSessionIDLen bounds client supplied ids before they reach storage keys.
const maxSessionIDLen = 128

// SessionID resolves the browser session every cart and checkout call is
// scoped to. A missing or oversized header starts a new session; the id in
// use is always echoed back so the client can keep it.
func SessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := strings.TrimSpace(r.Header.Get(HeaderSessionID))
		if sid == "" || len(sid) > maxSessionIDLen {
			sid = uuid.NewString()
		}

		w.Header().Set(HeaderSessionID, sid)
		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sid)))
	})
}
