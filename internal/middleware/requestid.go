package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/templui/goaltrack/internal/ctxkeys"
)

const requestIDHeader = "X-Request-ID"

// RequestID keeps an incoming X-Request-ID or assigns a new one, stores it in
// the request context and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithRequestID(r.Context(), id)))
	})
}
