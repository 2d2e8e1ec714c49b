package bizsearch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Client operations, as labelled in metrics and logs.
const (
	opSave        = "save"
	opRemove      = "remove"
	opSearch      = "search"
	opSearchOwned = "search_owned"
	opPing        = "ping"
)

// sdkMetrics counts client operations per family and the documents they
// wrote or returned.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	documents  *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizsearch",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Client operations by family and outcome.",
		}, []string{"operation", "family", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bizsearch",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "Client operation duration in seconds by family.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "family"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizsearch",
			Subsystem: "sdk",
			Name:      "documents_total",
			Help:      "Documents saved or returned by successful client operations.",
		}, []string{"operation", "family"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.documents); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers c, or points it at the collector a previous
// client registered under the same name.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("bizsearch: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("bizsearch: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer logs and measures client operations. A nil observer, logger or
// metrics set disables the matching output.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// observe records one operation on the table of f. docs is the number of
// documents saved or returned; it is counted only on success.
func (o *observer) observe(op string, f Family, docs int, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if m := o.metrics; m != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		m.operations.WithLabelValues(op, string(f), status).Inc()
		m.duration.WithLabelValues(op, string(f)).Observe(dur.Seconds())
		if err == nil && docs > 0 {
			m.documents.WithLabelValues(op, string(f)).Add(float64(docs))
		}
	}

	if o.logger == nil {
		return
	}
	attrs := []any{"op", op, "family", string(f), "documents", docs, "duration", dur}
	if err != nil {
		o.logger.Warn("index operation failed", append(attrs, "error", err)...)
		return
	}
	o.logger.Debug("index operation completed", attrs...)
}
