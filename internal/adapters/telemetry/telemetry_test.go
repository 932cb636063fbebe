package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/buckle/internal/adapters/telemetry"
	"go.trai.ch/buckle/internal/core/ports"
)

func TestOTelTracer_Start(t *testing.T) {
	tracer := telemetry.NewOTelTracer("test-tracer")
	assert.NotNil(t, tracer)

	ctx, span := tracer.Start(context.Background(), "finalize",
		ports.WithAttribute("partitions", 3),
		ports.WithAttribute("cache", ".buckle/ext"),
	)
	assert.NotNil(t, ctx)
	assert.NotNil(t, span)

	span.SetAttribute("string", "value")
	span.SetAttribute("int", 1)
	span.SetAttribute("int64", int64(2))
	span.SetAttribute("float", 1.5)
	span.SetAttribute("bool", true)
	span.SetAttribute("slice", []string{"a", "b"})
	span.SetAttribute("other", struct{}{})
	span.RecordError(errors.New("boom"))
	span.End()
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()

	got, span := tracer.Start(ctx, "compose")
	assert.Equal(t, ctx, got)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	span.End()
}
