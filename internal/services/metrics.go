package services

import "github.com/prometheus/client_golang/prometheus"

// Domain-level Prometheus counters. HTTP-level metrics live in the
// middleware package; these track the commerce flow itself.
var (
	paymentsConfirmed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_confirmed_total",
			Help: "Confirmed payments credited, by product and outcome kind.",
		},
		[]string{"product", "outcome"},
	)

	purchaseDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_denials_total",
			Help: "Purchase attempts denied by the entitlement gate, by reason.",
		},
		[]string{"reason"},
	)

	notificationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Operator notification deliveries that failed.",
		},
	)
)

func init() {
	prometheus.MustRegister(paymentsConfirmed, purchaseDenials, notificationFailures)
}
