package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/hostkit/errors"
)

// InstrumentationName is the meter name used by the runtime.
const InstrumentationName = "github.com/kbukum/hostkit"

// Instrument names.
const (
	MetricOperationTotal    = "hostkit.operation.total"
	MetricOperationDuration = "hostkit.operation.duration"
	MetricErrorTotal        = "hostkit.error.total"
)

// Operation statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// MeterFrom returns the runtime's meter from mp, or from the global provider
// when mp is nil.
func MeterFrom(mp metric.MeterProvider) metric.Meter {
	if mp == nil {
		return Meter(InstrumentationName)
	}
	return mp.Meter(InstrumentationName)
}

// Metrics holds the instruments for bridge operations and masked failures.
type Metrics struct {
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	errorTotal        metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	operationTotal, err := meter.Int64Counter(MetricOperationTotal,
		metric.WithDescription("Total number of bridge operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricOperationTotal, err)
	}

	operationDuration, err := meter.Float64Histogram(MetricOperationDuration,
		metric.WithDescription("Duration of bridge operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricOperationDuration, err)
	}

	errorTotal, err := meter.Int64Counter(MetricErrorTotal,
		metric.WithDescription("Failures masked by best-effort calls, by type and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrorTotal, err)
	}

	return &Metrics{
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		errorTotal:        errorTotal,
	}, nil
}

// RecordOperation records an operation execution.
func (m *Metrics) RecordOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
	))
}

// RecordError records an error by type and component.
func (m *Metrics) RecordError(ctx context.Context, errType, component string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}

// StatusOf maps err to an operation status: "ok" for nil, the lower-cased
// error code for AppErrors and "error" for anything else.
func StatusOf(err error) string {
	if err == nil {
		return StatusOK
	}
	return ErrorType(err)
}

// ErrorType returns the lower-cased AppError code of err, or "error".
func ErrorType(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return strings.ToLower(string(appErr.Code))
	}
	return StatusError
}
