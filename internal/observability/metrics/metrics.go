package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AuthLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of password login attempts.",
		},
		[]string{"result"},
	)

	OtpIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_otp_issued_total",
			Help: "Total number of one-time codes issued, by flow.",
		},
		[]string{"flow", "result"},
	)

	OtpVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_otp_verifications_total",
			Help: "Total number of one-time code verification attempts.",
		},
		[]string{"result"},
	)

	TokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of bearer tokens issued.",
		},
		[]string{"result"},
	)

	NotificationsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of outbound notifications, by driver.",
		},
		[]string{"driver", "result"},
	)

	EmployeeMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "employee_mutations_total",
			Help: "Total number of employee create/update/delete attempts.",
		},
		[]string{"operation", "result"},
	)
)

// MustRegister registers every collector on the default registry with a
// constant "service" label.
func MustRegister(serviceName string) {
	reg := prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, prometheus.DefaultRegisterer)
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		AuthLoginsTotal,
		OtpIssuedTotal,
		OtpVerificationsTotal,
		TokensIssuedTotal,
		NotificationsSentTotal,
		EmployeeMutationsTotal,
	)
}
