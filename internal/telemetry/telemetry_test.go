package telemetry

import (
	"context"
	"testing"
)

func TestNewLogger(t *testing.T) {
	for _, prod := range []bool{true, false} {
		logger, err := NewLogger(prod)
		if err != nil {
			t.Fatalf("production=%t: %v", prod, err)
		}
		logger.Infow("logger ready", "production", prod)
		_ = logger.Sync()
	}
}

func TestInitTracingWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInitTracingWithEndpoint(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "http://127.0.0.1:4318")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// ничего не экспортировали, shutdown сбрасывает пустой батч
	_ = shutdown(ctx)
}
