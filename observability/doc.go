// Package observability provides OpenTelemetry tracing and metrics for
// stream evaluations.
//
// Every terminal operation runs inside an Evaluation scope that opens a span,
// records evaluation counters and durations, and closes with the outcome:
//
//	ctx, ev := observability.StartEvaluation(ctx, "collect", "parallel", id)
//	defer ev.End(ctx, err)
//
// Exporters are optional. Without InitTracer and InitMeter the global otel
// providers are no-ops and the calls cost almost nothing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("streambench"))
//	defer tp.Shutdown(ctx)
package observability
