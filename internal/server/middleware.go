package server

import (
	"context"
	"net/http"

	"github.com/warriorsbball/painttouch/internal/session"
)

type ctxKey int

const ctxKeyWorkspace ctxKey = iota

const sessionCookieName = "pt_session"

// sessionMiddleware resolves the caller's workspace from the session cookie,
// starting a new session when the cookie is missing or has expired.
func sessionMiddleware(sessions *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var ws *session.Workspace
			if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
				ws, _ = sessions.Get(cookie.Value)
			}

			if ws == nil {
				ws = sessions.Create()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    ws.Token(),
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), ctxKeyWorkspace, ws)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func workspaceFrom(r *http.Request) *session.Workspace {
	return r.Context().Value(ctxKeyWorkspace).(*session.Workspace)
}
