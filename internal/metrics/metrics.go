package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Total number of customer accounts created through signup
	SignupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "customer_signups_total",
		Help: "Total number of customer accounts created",
	})

	// Login attempts partitioned by outcome
	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "customer_logins_total",
		Help: "Total number of customer login attempts",
	}, []string{"result"})

	// OTP verification attempts partitioned by outcome
	OtpVerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "customer_otp_verifications_total",
		Help: "Total number of OTP verification attempts",
	}, []string{"result"})

	// Codes handed to the SMS gateway
	OtpSendsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "customer_otp_sends_total",
		Help: "Total number of verification codes handed to the SMS gateway",
	})
)

// Init registers all collectors with the default registry.
func Init() {
	prometheus.MustRegister(
		SignupsTotal,
		LoginsTotal,
		OtpVerificationsTotal,
		OtpSendsTotal,
	)
}
