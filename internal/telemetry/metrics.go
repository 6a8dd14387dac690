package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "agentdeck/flows"

// FlowMetrics counts orchestration flows and their latency.
type FlowMetrics struct {
	runs     metric.Int64Counter
	duration metric.Float64Histogram
}

// NewFlowMetrics builds instruments from m, or from the global meter
// provider when m is nil.
func NewFlowMetrics(m metric.Meter) (*FlowMetrics, error) {
	if m == nil {
		m = otel.Meter(meterName)
	}
	runs, err := m.Int64Counter("agentdeck.flow.runs",
		metric.WithDescription("Orchestration flows by operation and outcome"))
	if err != nil {
		return nil, err
	}
	duration, err := m.Float64Histogram("agentdeck.flow.duration",
		metric.WithDescription("Orchestration flow latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &FlowMetrics{runs: runs, duration: duration}, nil
}

// Record notes one finished flow. A nil receiver is a no-op.
func (f *FlowMetrics) Record(ctx context.Context, op string, start time.Time, err error) {
	if f == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(attribute.String("op", op), attribute.String("outcome", outcome))
	f.runs.Add(ctx, 1, attrs)
	f.duration.Record(ctx, time.Since(start).Seconds(), attrs)
}
