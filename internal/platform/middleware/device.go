package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mssola/useragent"
)

type contextKeyDevice struct{}

// Device parses the User-Agent header into a short browser/platform summary
// and stores it in the request context for the logging middleware. Signups
// come from personal devices; the summary helps spot scripted submissions in
// the logs.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := useragent.New(r.UserAgent())
		name, version := ua.Browser()
		summary := fmt.Sprintf("%s/%s (%s)", name, version, ua.Platform())
		if ua.Bot() {
			summary = "bot " + summary
		}
		ctx := context.WithValue(r.Context(), contextKeyDevice{}, summary)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetDevice retrieves the device summary from the context.
func GetDevice(ctx context.Context) string {
	if device, ok := ctx.Value(contextKeyDevice{}).(string); ok {
		return device
	}
	return ""
}

// WithDevice injects a device summary, for tests that skip the middleware.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, contextKeyDevice{}, device)
}
