package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"registry-client/registry/domain"
)

// SubmitMetrics expõe os resultados dos envios no Prometheus.
// Implementa domain.StatsStore, então entra no Submitter como qualquer outro store.
type SubmitMetrics struct {
	submissions *prometheus.CounterVec
	wait        prometheus.Histogram
	duration    *prometheus.HistogramVec
}

// NewSubmitMetrics registra no registerer padrão.
func NewSubmitMetrics() *SubmitMetrics {
	return NewSubmitMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func NewSubmitMetricsWithRegisterer(registerer prometheus.Registerer) *SubmitMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &SubmitMetrics{
		submissions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "registry_submissions_total",
			Help: "Total number of document submissions by outcome and product group",
		}, []string{"outcome", "group"}),
		wait: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "registry_admission_wait_seconds",
			Help:    "Time spent waiting for the rate limiter to admit a submission",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		duration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "registry_submission_duration_seconds",
			Help:    "End-to-end duration of document submissions in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
}

func (m *SubmitMetrics) Record(_ context.Context, ev domain.StatsEvent) error {
	if m == nil {
		return nil
	}
	group := ev.Group.APIValue()
	if group == "" {
		group = "none"
	}
	m.submissions.WithLabelValues(ev.Outcome, group).Inc()
	if ev.Wait > 0 {
		m.wait.Observe(ev.Wait.Seconds())
	}
	m.duration.WithLabelValues(ev.Outcome).Observe(ev.Duration.Seconds())
	return nil
}

// LimiterState é o que os gauges leem do limiter a cada scrape.
type LimiterState interface {
	Available() int
	Waiting() int
	Limit() int
}

// RegisterLimiterGauges expõe capacidade livre, fila e limite configurado.
func RegisterLimiterGauges(registerer prometheus.Registerer, l LimiterState) error {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "registry_limiter_available",
			Help: "Admission capacity left in the current window",
		}, func() float64 { return float64(l.Available()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "registry_limiter_waiting",
			Help: "Callers blocked waiting for admission",
		}, func() float64 { return float64(l.Waiting()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "registry_limiter_limit",
			Help: "Configured admissions per window",
		}, func() float64 { return float64(l.Limit()) }),
	}
	for _, g := range gauges {
		if err := registerer.Register(g); err != nil {
			return fmt.Errorf("register limiter gauge: %w", err)
		}
	}
	return nil
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}
