// Package metrictest collects metrics in memory for tests.
package metrictest

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Reader pairs a meter provider with a manual reader.
type Reader struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
}

// NewReader returns a reader whose provider is shut down with the test.
func NewReader(t testing.TB) *Reader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return &Reader{reader: reader, provider: provider}
}

// Provider returns the meter provider feeding the reader.
func (r *Reader) Provider() metric.MeterProvider { return r.provider }

// Meter returns a meter from the provider.
func (r *Reader) Meter(name string) metric.Meter { return r.provider.Meter(name) }

// Collect gathers every metric recorded so far.
func (r *Reader) Collect(t testing.TB) []metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := r.reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}
	var out []metricdata.Metrics
	for _, sm := range rm.ScopeMetrics {
		out = append(out, sm.Metrics...)
	}
	return out
}

// Sum returns the total of the int64 counter name over the data points that
// carry every attribute in attrs.
func (r *Reader) Sum(t testing.TB, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	var total int64
	for _, m := range r.Collect(t) {
		if m.Name != name {
			continue
		}
		sum, ok := m.Data.(metricdata.Sum[int64])
		if !ok {
			t.Fatalf("metric %s is %T, want int64 sum", name, m.Data)
		}
		for _, dp := range sum.DataPoints {
			if hasAll(dp.Attributes, attrs) {
				total += dp.Value
			}
		}
	}
	return total
}

// Count returns the number of observations of the float64 histogram name
// over the data points that carry every attribute in attrs.
func (r *Reader) Count(t testing.TB, name string, attrs ...attribute.KeyValue) uint64 {
	t.Helper()
	var total uint64
	for _, m := range r.Collect(t) {
		if m.Name != name {
			continue
		}
		hist, ok := m.Data.(metricdata.Histogram[float64])
		if !ok {
			t.Fatalf("metric %s is %T, want float64 histogram", name, m.Data)
		}
		for _, dp := range hist.DataPoints {
			if hasAll(dp.Attributes, attrs) {
				total += dp.Count
			}
		}
	}
	return total
}

func hasAll(set attribute.Set, attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		v, ok := set.Value(kv.Key)
		if !ok || v.Emit() != kv.Value.Emit() {
			return false
		}
	}
	return true
}
