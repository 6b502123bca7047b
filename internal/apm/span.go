package apm

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span is the subset of the OTEL span surface the pipeline uses, plus
// NoticeError which records and marks the span failed in one call.
type Span interface {
	SetAttributes(values ...attribute.KeyValue)
	AddEvent(name string, options ...trace.EventOption)
	End(options ...trace.SpanEndOption)
	NoticeError(err error)
	RecordError(err error, options ...trace.EventOption)
	SetStatus(code codes.Code, description string)
	IsRecording() bool
	SpanContext() trace.SpanContext
}

type traceSpan struct {
	span trace.Span
}

// NewSpan wraps an OTEL span.
func NewSpan(span trace.Span) Span {
	return &traceSpan{
		span,
	}
}

func (s *traceSpan) SetAttributes(values ...attribute.KeyValue) {
	s.span.SetAttributes(values...)
}

func (s *traceSpan) AddEvent(name string, options ...trace.EventOption) {
	s.span.AddEvent(name, options...)
}

func (s *traceSpan) End(options ...trace.SpanEndOption) {
	s.span.End(options...)
}

func (s *traceSpan) NoticeError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *traceSpan) RecordError(err error, options ...trace.EventOption) {
	s.span.RecordError(err, options...)
}

func (s *traceSpan) SetStatus(code codes.Code, description string) {
	s.span.SetStatus(code, description)
}

func (s *traceSpan) IsRecording() bool {
	return s.span.IsRecording()
}

func (s *traceSpan) SpanContext() trace.SpanContext {
	return s.span.SpanContext()
}
