package http

import (
	"net/http"
	"net/netip"
	"time"

	"employee-auth/internal/httpx"
	"employee-auth/internal/netutil"
	obsmw "employee-auth/internal/observability/middleware"
	"employee-auth/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Auth      service.AuthService
	Employees service.EmployeeService
	Access    service.AccessService
	Tokens    service.TokenService

	CORSOrigins []string
	// TrustedProxies are the peers whose X-Forwarded-For and X-Real-IP
	// headers are honoured. Empty means the headers are ignored.
	TrustedProxies []netip.Prefix
	// AuthRateLimit is requests per minute per client IP on /api/auth.
	// Zero disables the limit.
	AuthRateLimit int
	// MetricsHandler serves /metrics; nil uses the default registry.
	MetricsHandler http.Handler
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(netutil.RealIP(d.TrustedProxies))
	r.Use(obsmw.WithRequestAndTrace)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(obsmw.WithMetrics)
	r.Use(httpx.LogRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", obsmw.HeaderRequestID, obsmw.HeaderTraceID},
		ExposedHeaders: []string{obsmw.HeaderRequestID, obsmw.HeaderTraceID},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	metricsHandler := d.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)

	auth := &authHandler{auth: d.Auth}
	employees := &employeeHandler{employees: d.Employees, access: d.Access}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if d.AuthRateLimit > 0 {
				r.Use(httprate.Limit(d.AuthRateLimit, time.Minute,
					httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
						return netutil.ClientIP(r), nil
					}),
					httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
						writeMessage(w, http.StatusTooManyRequests, "too many requests, try again later")
					}),
				))
			}
			r.Post("/login", auth.login)
			r.Post("/verify-otp", auth.verifyOtp)
			r.Post("/resend-otp", auth.resendOtp)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Use(RequireBearer(d.Tokens))
			r.Get("/", employees.list)
			r.Post("/", employees.create)
			r.Get("/can-manage", employees.canManage)
			r.Put("/profile", employees.updateProfile)
			r.Get("/{id}", employees.get)
			r.Put("/{id}", employees.update)
			r.Delete("/{id}", employees.delete)
		})
	})

	return r
}
