// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tessellate/schemer/scheme"
	"github.com/tessellate/schemer/scheme/x/profiler"
	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Tracing backends accepted by --trace.
const (
	traceOpenTelemetry = "opentelemetry"
	traceOpenCensus    = "opencensus"
)

// startProfiling attaches the profilers selected by the flags to the runtime
// of env.  Every span is logged at info level when tracing is on.  The
// returned function ends the session and must be called once evaluation is
// done.
func startProfiling(ctx context.Context, env *scheme.Env, backend, callgrindFile string, logger logrus.FieldLogger) (func() error, error) {
	if backend != "" && callgrindFile != "" {
		return nil, fmt.Errorf("--trace and --callgrind are mutually exclusive")
	}
	if callgrindFile != "" {
		p := profiler.NewCallgrindProfiler(env.Runtime)
		if err := p.SetFile(callgrindFile); err != nil {
			return nil, err
		}
		if err := p.Enable(); err != nil {
			return nil, err
		}
		return p.Complete, nil
	}
	switch backend {
	case "":
		return func() error { return nil }, nil
	case traceOpenTelemetry:
		return startOpenTelemetry(ctx, env, logger)
	case traceOpenCensus:
		return startOpenCensus(ctx, env, logger)
	default:
		return nil, fmt.Errorf("unknown trace backend %q", backend)
	}
}

func startOpenTelemetry(ctx context.Context, env *scheme.Env, logger logrus.FieldLogger) (func() error, error) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(&logSpanProcessor{logger: logger}))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	ctx, span := tp.Tracer(profiler.DefaultTracerName).Start(ctx, "run")
	p := profiler.NewOpenTelemetryAnnotator(env.Runtime, ctx)
	if err := p.Enable(); err != nil {
		return nil, err
	}
	return func() error {
		_ = p.Complete()
		span.End()
		otel.SetTracerProvider(prev)
		return tp.Shutdown(context.Background())
	}, nil
}

func startOpenCensus(ctx context.Context, env *scheme.Env, logger logrus.FieldLogger) (func() error, error) {
	exporter := &logExporter{logger: logger}
	octrace.RegisterExporter(exporter)
	ctx, span := octrace.StartSpan(ctx, "run", octrace.WithSampler(octrace.AlwaysSample()))
	p := profiler.NewOpenCensusAnnotator(env.Runtime, ctx)
	if err := p.Enable(); err != nil {
		octrace.UnregisterExporter(exporter)
		return nil, err
	}
	return func() error {
		_ = p.Complete()
		span.End()
		octrace.UnregisterExporter(exporter)
		return nil
	}, nil
}

// logSpanProcessor logs OpenTelemetry spans as they end.
type logSpanProcessor struct {
	logger logrus.FieldLogger
}

var _ sdktrace.SpanProcessor = (*logSpanProcessor)(nil)

func (*logSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p *logSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	fields := logrus.Fields{
		"span":     s.Name(),
		"trace":    s.SpanContext().TraceID().String(),
		"duration": s.EndTime().Sub(s.StartTime()),
	}
	for _, kv := range s.Attributes() {
		fields[string(kv.Key)] = kv.Value.Emit()
	}
	p.logger.WithFields(fields).Info("span")
}

func (*logSpanProcessor) Shutdown(context.Context) error   { return nil }
func (*logSpanProcessor) ForceFlush(context.Context) error { return nil }

// logExporter logs OpenCensus spans.
type logExporter struct {
	logger logrus.FieldLogger
}

func (e *logExporter) ExportSpan(s *octrace.SpanData) {
	fields := logrus.Fields{
		"span":     s.Name,
		"trace":    s.TraceID.String(),
		"duration": s.EndTime.Sub(s.StartTime),
	}
	for _, a := range s.Annotations {
		for k, v := range a.Attributes {
			fields[k] = v
		}
	}
	e.logger.WithFields(fields).Info("span")
}
