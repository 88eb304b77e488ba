package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business-level Prometheus metrics. HTTP-level metrics (latency, status
// codes) live in the middleware package; these track domain events.
var (
	invoicesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tagihin",
		Name:      "invoices_created_total",
		Help:      "Total number of invoices created",
	})

	invoiceTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tagihin",
		Name:      "invoice_transitions_total",
		Help:      "Invoice status transitions by target status",
	}, []string{"status"})

	invoiceValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tagihin",
		Name:      "invoice_value_rupiah",
		Help:      "Invoice totals in whole rupiah",
		Buckets:   []float64{50_000, 100_000, 500_000, 1_000_000, 5_000_000, 10_000_000, 50_000_000},
	})

	clientInvoiceViews = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tagihin",
		Name:      "client_invoice_views_total",
		Help:      "Token-gated invoice lookups by outcome",
	}, []string{"outcome"})

	signups = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tagihin",
		Name:      "signups_total",
		Help:      "Total number of account registrations",
	})

	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tagihin",
		Name:      "logins_total",
		Help:      "Login attempts by scope and result",
	}, []string{"scope", "result"})

	billingCustomersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tagihin",
		Name:      "billing_customers_created_total",
		Help:      "Total number of billing customers provisioned remotely",
	})
)

// RecordInvoiceCreated tracks a new invoice and its value.
func RecordInvoiceCreated(total int64) {
	invoicesCreated.Inc()
	invoiceValue.Observe(float64(total))
}

// RecordInvoiceTransition tracks a status change by target status.
func RecordInvoiceTransition(status string) {
	invoiceTransitions.WithLabelValues(status).Inc()
}

// RecordClientInvoiceView tracks a public invoice lookup.
// Outcome is "ok", "not_found", or "not_ready".
func RecordClientInvoiceView(outcome string) {
	clientInvoiceViews.WithLabelValues(outcome).Inc()
}

// RecordSignup tracks a completed registration.
func RecordSignup() {
	signups.Inc()
}

// RecordLogin tracks a login attempt. Scope is "admin" or "user".
func RecordLogin(scope string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	logins.WithLabelValues(scope, result).Inc()
}

// RecordBillingCustomerCreated tracks a remote customer creation.
func RecordBillingCustomerCreated() {
	billingCustomersCreated.Inc()
}
