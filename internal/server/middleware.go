package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey string

const sessionKey ctxKey = "pos_session"

// SessionCookie names the cookie that pins a browser to its terminal session.
const SessionCookie = "pos_session"

// SessionMiddleware resolves the terminal session id: the X-Session-ID header
// wins, then the session cookie, and a first-time visitor gets a fresh id set
// on both the cookie and the response header.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Session-ID")
		if id == "" {
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set("X-Session-ID", id)

		ctx := context.WithValue(r.Context(), sessionKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionKey).(string); ok {
		return id
	}
	return ""
}
