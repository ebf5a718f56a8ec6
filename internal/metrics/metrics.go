// Package metrics define las métricas Prometheus del servicio: requests HTTP,
// envíos de mail y estado del pool de Postgres.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hellomail"

// Metrics agrupa los collectors registrados en un registry.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInflight *prometheus.GaugeVec

	MailSends        *prometheus.CounterVec
	MailSendDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New crea y registra las métricas. reg nil usa un registry nuevo con los
// collectors de runtime (go + process).
// Registrar dos veces sobre el mismo registry reutiliza los collectors existentes.
func New(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Número total de requests procesadas",
		}, []string{"method", "route", "status"}),

		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de los requests HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		HTTPInflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "Requests en vuelo por método",
		}, []string{"method"}),

		MailSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mail_sends_total",
			Help:      "Intentos de envío por proveedor y resultado",
		}, []string{"provider", "status"}),

		MailSendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mail_send_duration_seconds",
			Help:      "Duración del envío SMTP",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"provider"}),

		registry: reg,
	}

	var err error
	if m.HTTPRequests, err = register(reg, m.HTTPRequests); err != nil {
		return nil, err
	}
	if m.HTTPDuration, err = register(reg, m.HTTPDuration); err != nil {
		return nil, err
	}
	if m.HTTPInflight, err = register(reg, m.HTTPInflight); err != nil {
		return nil, err
	}
	if m.MailSends, err = register(reg, m.MailSends); err != nil {
		return nil, err
	}
	if m.MailSendDuration, err = register(reg, m.MailSendDuration); err != nil {
		return nil, err
	}
	return m, nil
}

// register registra c; si ya existía devuelve el collector registrado.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Handler expone /metrics para el registry de m.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSend registra un intento de envío. status: success|failed.
// m nil es válido y no hace nada.
func (m *Metrics) ObserveSend(provider, status string, d time.Duration) {
	if m == nil {
		return
	}
	if provider == "" {
		provider = "unknown"
	}
	m.MailSends.WithLabelValues(provider, status).Inc()
	if d > 0 {
		m.MailSendDuration.WithLabelValues(provider).Observe(d.Seconds())
	}
}

// RegisterPool agrega gauges del pool pgx al registry de m.
func (m *Metrics) RegisterPool(pool func() *pgxpool.Pool) error {
	_, err := register[prometheus.Collector](m.registry, newPoolCollector(pool))
	return err
}

// poolCollector expone el estado del pool de Postgres.
type poolCollector struct {
	pool func() *pgxpool.Pool

	acquiredDesc *prometheus.Desc
	idleDesc     *prometheus.Desc
	totalDesc    *prometheus.Desc
}

func newPoolCollector(pool func() *pgxpool.Pool) *poolCollector {
	return &poolCollector{
		pool:         pool,
		acquiredDesc: prometheus.NewDesc(namespace+"_pgxpool_acquired", "Conexiones adquiridas", nil, nil),
		idleDesc:     prometheus.NewDesc(namespace+"_pgxpool_idle", "Conexiones inactivas", nil, nil),
		totalDesc:    prometheus.NewDesc(namespace+"_pgxpool_total", "Conexiones totales", nil, nil),
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredDesc
	ch <- c.idleDesc
	ch <- c.totalDesc
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	if c.pool == nil {
		return
	}
	p := c.pool()
	if p == nil {
		return
	}
	stat := p.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquiredDesc, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, float64(stat.TotalConns()))
}
