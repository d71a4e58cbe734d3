package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), logs
}

func TestNewGormLogger(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Warn)
	assert.Equal(t, gormlogger.Warn, gl.logLevel)
	assert.Equal(t, 200*time.Millisecond, gl.slowThreshold)
}

func TestNewGormLogger_SlowThresholdOption(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(50*time.Millisecond))
	assert.Equal(t, 50*time.Millisecond, gl.slowThreshold)
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Warn)
	clone := gl.LogMode(gormlogger.Info).(*GormLogger)

	assert.Equal(t, gormlogger.Info, clone.logLevel)
	assert.Equal(t, gormlogger.Warn, gl.logLevel)
}

func TestGormLogger_Levels(t *testing.T) {
	ctx := context.Background()

	t.Run("info emitted at info level", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)
		gl.Info(ctx, "migrating %s", "invoices")
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "migrating invoices", logs.All()[0].Message)
	})

	t.Run("info suppressed at warn level", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Warn)
		gl.Info(ctx, "noise")
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("error always emitted", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error)
		gl.Error(ctx, "bad statement")
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zap.ErrorLevel, logs.All()[0].Level)
	})
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()
	query := func() (string, int64) { return "SELECT * FROM invoices", 3 }

	t.Run("error statement logged with sql", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error)
		gl.Trace(ctx, time.Now(), query, errors.New("syntax error"))

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "SQL Error", entry.Message)
		assert.Equal(t, "SELECT * FROM invoices", entry.ContextMap()["sql"])
	})

	t.Run("record not found suppressed", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error)
		gl.Trace(ctx, time.Now(), query, gormlogger.ErrRecordNotFound)
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("slow query warned", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))
		gl.Trace(ctx, time.Now().Add(-time.Millisecond), query, nil)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "Slow SQL", entry.Message)
		assert.Equal(t, zap.WarnLevel, entry.Level)
	})

	t.Run("normal query traced at debug when info enabled", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)
		gl.Trace(ctx, time.Now(), query, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "SQL Query", logs.All()[0].Message)
	})

	t.Run("silent drops everything", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Silent)
		gl.Trace(ctx, time.Now(), query, errors.New("syntax error"))
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("request id carried from context", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)
		reqCtx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-42")
		gl.Trace(reqCtx, time.Now(), query, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "req-42", logs.All()[0].ContextMap()["request_id"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, MapGormLogLevel(tt.input))
		})
	}
}

func TestGormLoggerImplementsInterface(t *testing.T) {
	var _ gormlogger.Interface = (*GormLogger)(nil)
}
