// Package observability records OpenTelemetry metrics for the host bridges.
//
//	metrics, err := observability.NewMetrics(observability.Meter("hostkit"))
//	metrics.RecordOperation(ctx, "preferences", "get", observability.StatusOf(err), d)
//	metrics.RecordError(ctx, "CONVERSION_FAILED", "charset")
//
// Instruments go to the global meter provider unless a provider is passed
// explicitly. A nil *Metrics records nothing.
package observability
