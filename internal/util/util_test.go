package util

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { logger = nil })

	for _, env := range []string{"production", "development"} {
		require.NoError(t, InitLogger(env))
		assert.NotNil(t, GetLogger())
		assert.Same(t, GetLogger(), zap.L())
	}
}

func TestGetLoggerBeforeInit(t *testing.T) {
	logger = nil
	assert.NotNil(t, GetLogger())
}

func TestInitTracerWithoutExporter(t *testing.T) {
	tp, err := InitTracer("glamgo-test", "")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		tracer = nil
	})

	_, span := StartSpan(context.Background(), "OrderService.CreateOrder")
	defer span.End()

	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.IsRecording())
}
