package observe

import (
	"context"
	"io"

	"github.com/san-kum/boxsim/internal/boxmodel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/san-kum/boxsim"

// InitTracing installs a global tracer provider exporting spans as JSON to
// w. The returned function flushes and shuts the provider down.
func InitTracing(ctx context.Context, w io.Writer, service, version string) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", service),
			attribute.String("service.version", version),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// TracingObserver records a run as one span. Every Every-th step is
// added as a span event; zero disables step events.
type TracingObserver struct {
	Tracer trace.Tracer
	Name   string
	RunID  string
	Every  int

	ctx  context.Context
	span trace.Span
}

// NewTracingObserver uses the global tracer provider when tracer is nil.
func NewTracingObserver(ctx context.Context, tracer trace.Tracer, name, runID string) *TracingObserver {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &TracingObserver{Tracer: tracer, Name: name, RunID: runID, ctx: ctx}
}

func (o *TracingObserver) OnRunStart(m *boxmodel.Model) {
	o.ctx, o.span = o.Tracer.Start(o.ctx, "boxmodel.run",
		trace.WithAttributes(
			attribute.String("model", o.Name),
			attribute.String("run_id", o.RunID),
			attribute.Int("boxes", len(m.Boxes())),
			attribute.Int("steps", m.TotalSteps()),
			attribute.Float64("step_length", m.StepLength()),
		),
	)
}

func (o *TracingObserver) OnStep(step int, t float64, _ *boxmodel.Registry) {
	if o.span == nil || o.Every <= 0 || step%o.Every != 0 {
		return
	}
	o.span.AddEvent("step", trace.WithAttributes(
		attribute.Int("step", step),
		attribute.Float64("time", t),
	))
}

func (o *TracingObserver) OnRunEnd(m *boxmodel.Model, err error) {
	if o.span == nil {
		return
	}
	o.span.SetAttributes(attribute.Int("completed_steps", m.Step()))
	for name, v := range m.Metrics() {
		o.span.SetAttributes(attribute.Float64("metric."+name, v))
	}
	if err != nil {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	} else {
		o.span.SetStatus(codes.Ok, "")
	}
	o.span.End()
	o.span = nil
}

// Context returns the run span's context once the run has started.
func (o *TracingObserver) Context() context.Context { return o.ctx }
