package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeDependency = "dependency_error"
)

// PricingMetrics records catalog pricing calculations.
type PricingMetrics struct {
	calculations *prometheus.CounterVec
	items        prometheus.Histogram
	duration     *prometheus.HistogramVec
	discounts    prometheus.Counter
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_calculations_total",
		Help: "Catalog pricing calculations by outcome.",
	}, []string{"outcome"})
	items := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_calculation_items",
		Help:    "Number of line items per pricing calculation.",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_calculation_duration_seconds",
		Help:    "Duration of pricing calculations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	discounts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_discounted_items_total",
		Help: "Line items priced with a quantity discount applied.",
	})
	reg.MustRegister(calculations, items, duration, discounts)
	return &PricingMetrics{
		calculations: calculations,
		items:        items,
		duration:     duration,
		discounts:    discounts,
	}
}

// ObserveCalculation records one finished calculation.
func (p *PricingMetrics) ObserveCalculation(outcome string, items int, duration time.Duration) {
	if p == nil || p.calculations == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	p.calculations.WithLabelValues(outcome).Inc()
	p.items.Observe(float64(items))
	p.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// AddDiscountedItems counts line items that resolved a discount tier.
func (p *PricingMetrics) AddDiscountedItems(n int) {
	if p == nil || p.discounts == nil || n <= 0 {
		return
	}
	p.discounts.Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
