package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"tempo/infras/otel"
	"tempo/shared/datetz"
	"tempo/shared/failure"
)

func record(t *testing.T, fn func(scope otel.Scope)) sdktrace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, scope := otel.FromProvider(provider).NewScope(context.Background(), "test", "span")
	fn(scope)
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	return spans[0]
}

func attributes(kvs []attribute.KeyValue) map[string]attribute.Value {
	res := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		res[string(kv.Key)] = kv.Value
	}

	return res
}

func TestScopeTraceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus codes.Code
		expectedEvent  string
		expectedField  string
	}{
		{
			name:           "internal error",
			err:            errors.New("connection reset"),
			expectedStatus: codes.Error,
			expectedEvent:  "exception",
		},
		{
			name:           "not found",
			err:            failure.NotFound("appointment not found"),
			expectedStatus: codes.Unset,
			expectedEvent:  "request rejected",
		},
		{
			name:           "cast rejection",
			err:            failure.Cast("starts_at", true, datetz.ErrRejected),
			expectedStatus: codes.Unset,
			expectedEvent:  "request rejected",
			expectedField:  "starts_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := record(t, func(scope otel.Scope) {
				scope.TraceIfError(tt.err)
			})

			assert.Equal(t, tt.expectedStatus, span.Status().Code)
			require.Len(t, span.Events(), 1)

			event := span.Events()[0]
			assert.Equal(t, tt.expectedEvent, event.Name)

			if tt.expectedField != "" {
				attrs := attributes(event.Attributes)
				assert.Equal(t, tt.expectedField, attrs["datetz.cast.field"].AsString())
				assert.Equal(t, "true", attrs["datetz.cast.value"].AsString())
				assert.Equal(t, int64(400), attrs["error.code"].AsInt64())
			}
		})
	}
}

func TestScopeTraceIfErrorNil(t *testing.T) {
	span := record(t, func(scope otel.Scope) {
		scope.TraceIfError(nil)
	})

	assert.Equal(t, codes.Unset, span.Status().Code)
	assert.Empty(t, span.Events())
}

func TestScopeSetAttributes(t *testing.T) {
	v := datetz.MustNew(1_762_036_500_000, "Asia/Tokyo")

	span := record(t, func(scope otel.Scope) {
		scope.SetAttributes(map[string]any{
			"datetz.timestamp": v.Timestamp(),
			"datetz.timezone":  v.Timezone(),
			"datetz.local":     v.Time(),
			"datetz.precision": time.Minute,
			"datetz.state":     datetz.StateValue,
			"http.status_code": 200,
			"cache.hit":        false,
		})
	})

	attrs := attributes(span.Attributes())
	assert.Equal(t, int64(1_762_036_500_000), attrs["datetz.timestamp"].AsInt64())
	assert.Equal(t, "Asia/Tokyo", attrs["datetz.timezone"].AsString())
	assert.Equal(t, "2025-11-02T07:35:00+09:00", attrs["datetz.local"].AsString())
	assert.Equal(t, int64(60_000), attrs["datetz.precision"].AsInt64())
	assert.Equal(t, "value", attrs["datetz.state"].AsString())
	assert.Equal(t, int64(200), attrs["http.status_code"].AsInt64())
	assert.False(t, attrs["cache.hit"].AsBool())
}
