package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/attendmerge/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}

func TestNewLoggerFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendmerge.log")

	logger, err := logging.NewLoggerFromConfig(logging.Config{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	logger.Info().Msg("dropped")
	logger.Warn().Str("source", "ledger").Msg("merge skipped")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "dropped")
	assert.Contains(t, string(content), `"source":"ledger"`)
	assert.NotContains(t, string(content), `"caller"`)
}

func TestNewLoggerFromConfigDebugAddsCaller(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendmerge.log")

	logger, err := logging.NewLoggerFromConfig(logging.Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)
	logger.Warn().Msg("normalized inputs")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"caller"`)
}

func TestNewLoggerFromConfigBadOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "attendmerge.log")

	logger, err := logging.NewLoggerFromConfig(logging.Config{Format: "json", Output: path})
	assert.Error(t, err)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestConfigureInstallsDefault(t *testing.T) {
	original, level := *logging.Default(), zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(level)
	})

	logger, err := logging.Configure(logging.Config{Level: "error", Output: "discard"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.ErrorLevel, logger.GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, logging.Default().GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, logging.FromContext(context.Background()).GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
}

func TestContextLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	ctx = logging.WithRunID(ctx, "run-123")
	ctx = logging.WithSource(ctx, "presence")
	ctx = logging.WithStage(ctx, "normalize")

	logging.FromContext(ctx).Warn().Int("row", 4).Msg("dropped row")

	assert.Equal(t, "run-123", logging.RunID(ctx))
	assert.True(t, tl.Contains(`"run_id":"run-123"`))
	assert.True(t, tl.Contains(`"source":"presence"`))
	assert.True(t, tl.Contains(`"stage":"normalize"`))
	assert.Len(t, tl.Lines(), 1)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
	assert.Equal(t, "", logging.RunID(context.Background()))
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)
	logging.Default().Info().Str("source", "ledger").Msg("loaded")

	assert.True(t, tl.Contains("loaded"))
	assert.True(t, tl.Contains(`"source":"ledger"`))
}
