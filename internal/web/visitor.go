package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// VisitorCookie names the cookie that identifies a browser.
const VisitorCookie = "jisho_visitor"

const visitorMaxAge = 365 * 24 * time.Hour

type visitorKey struct{}

// Visitor makes sure every request carries a visitor ID, issuing a new
// cookie when the browser has none or an invalid one.
func Visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(VisitorCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     VisitorCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(visitorMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithVisitor(r.Context(), id)))
	})
}

// WithVisitor returns a copy of ctx carrying the visitor ID.
func WithVisitor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorKey{}, id)
}

// VisitorFrom returns the visitor ID stored in ctx, or "".
func VisitorFrom(ctx context.Context) string {
	id, _ := ctx.Value(visitorKey{}).(string)
	return id
}
