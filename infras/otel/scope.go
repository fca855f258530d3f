package otel

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"tempo/shared/failure"
)

const (
	attrErrorCode  = "error.code"
	attrCastField  = "datetz.cast.field"
	attrCastValue  = "datetz.cast.value"
	eventRejection = "request rejected"
)

// Scope is one traced unit of work.
type Scope interface {
	End()
	// TraceError records err. Only server side failures set the span status
	// to error; rejected input is recorded as an event.
	TraceError(err error)
	TraceIfError(err error)
	AddEvent(name string)
	SetAttribute(key string, value any)
	SetAttributes(attributes map[string]any)
}

type scopeImpl struct {
	span oteltrace.Span
}

func NewScope(span oteltrace.Span) Scope {
	return &scopeImpl{span: span}
}

func (s *scopeImpl) End() {
	s.span.End()
}

func (s *scopeImpl) TraceError(err error) {
	code := failure.GetCode(err)

	if code < http.StatusInternalServerError {
		attrs := []attribute.KeyValue{attribute.Int(attrErrorCode, code)}

		var castErr *failure.CastError
		if errors.As(err, &castErr) {
			attrs = append(attrs,
				attribute.String(attrCastField, castErr.Field),
				attribute.String(attrCastValue, fmt.Sprintf("%#v", castErr.Value)),
			)
		}

		s.span.AddEvent(eventRejection, oteltrace.WithAttributes(attrs...))

		return
	}

	s.span.RecordError(err)
	s.span.SetAttributes(attribute.Int(attrErrorCode, code))
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *scopeImpl) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func (s *scopeImpl) AddEvent(name string) {
	s.span.AddEvent(name)
}

func (s *scopeImpl) SetAttribute(key string, value any) {
	s.span.SetAttributes(attributeOf(key, value))
}

func (s *scopeImpl) SetAttributes(attributes map[string]any) {
	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for key, value := range attributes {
		attrs = append(attrs, attributeOf(key, value))
	}

	s.span.SetAttributes(attrs...)
}

// attributeOf maps a value to the closest attribute type. Instants are
// written as RFC 3339 in their own zone.
func attributeOf(key string, value any) attribute.KeyValue {
	switch val := value.(type) {
	case bool:
		return attribute.Bool(key, val)
	case string:
		return attribute.String(key, val)
	case int:
		return attribute.Int(key, val)
	case int64:
		return attribute.Int64(key, val)
	case float64:
		return attribute.Float64(key, val)
	case []string:
		return attribute.StringSlice(key, val)
	case time.Time:
		return attribute.String(key, val.Format(time.RFC3339Nano))
	case time.Duration:
		return attribute.Int64(key, val.Milliseconds())
	case fmt.Stringer:
		return attribute.String(key, val.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", val))
	}
}
