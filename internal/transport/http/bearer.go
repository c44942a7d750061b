package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"employee-auth/internal/domain"
	obsmw "employee-auth/internal/observability/middleware"
	"employee-auth/internal/service"
)

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*domain.Principal)
	return p, ok && p != nil
}

// RequireBearer rejects requests without a valid "Authorization: Bearer"
// token and stores the token's principal on the context.
func RequireBearer(tokens service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			p, err := tokens.Parse(raw)
			if err != nil {
				slog.Info("bearer token rejected", "error", err,
					"request_id", obsmw.RequestIDFromContext(r.Context()), "trace_id", obsmw.TraceIDFromContext(r.Context()))
				writeMessage(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
