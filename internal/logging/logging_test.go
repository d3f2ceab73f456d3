package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	logger, err := New(Options{Service: "order-service", Env: "test", Level: "debug", File: file})
	require.NoError(t, err)

	logger.Info("order_created", zap.String("order_id", "o-1"))
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"order_created"`)
	assert.Contains(t, string(data), `"service":"order-service"`)
	assert.Contains(t, string(data), `"level":"info"`)
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx := WithContext(context.Background(), logger)
	FromContext(ctx).Info("hello")
	assert.Equal(t, 1, logs.Len())

	assert.Same(t, zap.L(), FromContext(context.Background()))
	assert.Equal(t, ctx, WithContext(ctx, nil))
}
