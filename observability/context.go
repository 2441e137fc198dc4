package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/gostream/errors"
)

// Status values recorded for finished evaluations.
const (
	StatusOK     = "ok"
	StatusError  = "error"
	StatusCancel = "canceled"
)

// Evaluation holds observability state for one terminal evaluation.
type Evaluation struct {
	PipelineID string
	Operation  string
	Mode       string
	StartTime  time.Time
	Metrics    *Metrics

	span   trace.Span
	leaves int64
}

// evaluationKey is the context key for Evaluation.
type evaluationKey struct{}

// StartEvaluation opens a span for a terminal evaluation and records the
// start metric. Metrics come from DefaultMetrics; a nil Metrics skips
// recording.
func StartEvaluation(ctx context.Context, op, mode, pipelineID string) (context.Context, *Evaluation) {
	ev := &Evaluation{
		PipelineID: pipelineID,
		Operation:  op,
		Mode:       mode,
		StartTime:  time.Now(),
		Metrics:    DefaultMetrics(),
	}
	ctx, ev.span = StartSpan(ctx, SpanEvaluate, trace.WithAttributes(
		attribute.String(AttrPipelineID, pipelineID),
		attribute.String(AttrOperation, op),
		attribute.String(AttrMode, mode),
	))
	if ev.Metrics != nil {
		ev.Metrics.RecordStart(ctx)
	}
	return context.WithValue(ctx, evaluationKey{}, ev), ev
}

// EvaluationFromContext retrieves the Evaluation from context, or nil.
func EvaluationFromContext(ctx context.Context) *Evaluation {
	if ev, ok := ctx.Value(evaluationKey{}).(*Evaluation); ok {
		return ev
	}
	return nil
}

// StartLeaf opens a span for one leaf task of the evaluation. The returned
// function records err, if any, and ends the span.
func (ev *Evaluation) StartLeaf(ctx context.Context) (context.Context, func(err error)) {
	ctx, span := StartSpan(ctx, SpanLeaf, trace.WithAttributes(
		attribute.String(AttrPipelineID, ev.PipelineID),
		attribute.String(AttrOperation, ev.Operation),
	))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// SetLeaves records how many leaf tasks the evaluation ran.
func (ev *Evaluation) SetLeaves(n int64) {
	ev.leaves = n
}

// End closes the span and records the outcome.
func (ev *Evaluation) End(ctx context.Context, err error) {
	duration := time.Since(ev.StartTime)
	status := StatusOK
	if err != nil {
		status = StatusError
		if errors.HasCode(err, errors.ErrCodeCanceled) {
			status = StatusCancel
		}
		code, usage := "UNKNOWN", false
		if appErr, ok := errors.AsAppError(err); ok {
			code, usage = string(appErr.Code), errors.IsUsageCode(appErr.Code)
		}
		ev.span.RecordError(err)
		ev.span.SetStatus(codes.Error, err.Error())
		ev.span.SetAttributes(
			attribute.String(AttrErrorCode, code),
			attribute.String(AttrErrorMessage, err.Error()),
			attribute.Bool(AttrUsageError, usage),
		)
		if ev.Metrics != nil {
			ev.Metrics.RecordError(ctx, code, ev.Operation)
		}
	}

	ev.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrLeaves, ev.leaves),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	ev.span.End()

	if ev.Metrics != nil {
		ev.Metrics.RecordLeaves(ctx, ev.Operation, ev.leaves)
		ev.Metrics.RecordEnd(ctx, ev.Operation, ev.Mode, status, duration)
	}
}

// Duration returns the elapsed time since the evaluation started.
func (ev *Evaluation) Duration() time.Duration {
	return time.Since(ev.StartTime)
}
