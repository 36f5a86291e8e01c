package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/sma-standing-api/pkg/config"
)

func TestServeReportsStartupFailureAsExitCode(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := &config.Config{Database: config.DatabaseConfig{Host: "127.0.0.1", Port: 1, Name: "standing", SSLMode: "disable"}}
	code := serve(ctx, cfg, zap.New(core))

	assert.Equal(t, 1, code)
	entries := logs.FilterMessage("server failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}
