package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClaimDuration tracks the latency of public claim requests
	ClaimDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "coupon_claim_duration_seconds",
			Help: "Duration of coupon claim requests in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
				5.0,   // 5s
			},
		},
		[]string{"status"}, // success, rate_limited, exhausted, failed
	)

	// ClaimsTotal counts claim outcomes
	ClaimsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupon_claims_total",
			Help: "Total claim attempts by outcome",
		},
		[]string{"status"},
	)

	// ExpiredCouponsSwept counts coupons disabled by the expiry sweep
	ExpiredCouponsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coupon_expired_swept_total",
			Help: "Total coupons disabled by the expiry sweep job",
		},
	)
)

// RecordClaim records the outcome and duration of a claim request
func RecordClaim(status string, duration float64) {
	ClaimDuration.WithLabelValues(status).Observe(duration)
	ClaimsTotal.WithLabelValues(status).Inc()
}
