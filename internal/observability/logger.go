package observability

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFormatConsole selects the human-readable encoder. Any other format
// logs JSON.
const LogFormatConsole = "console"

// contextFields lists the request-scoped values copied onto every log line,
// in output order.
//
//nolint:gochecknoglobals // read-only lookup table
var contextFields = []struct {
	name string
	get  func(context.Context) string
}{
	{"trace_id", GetTraceID},
	{"span_id", GetSpanID},
	{"request_id", GetRequestID},
	{"provider", GetProvider},
	{"model", GetModel},
}

// The base logger is process-wide. Request scope travels in the context as
// plain values and is attached by FromContext.
//
//nolint:gochecknoglobals // process-wide logger
var (
	baseLogger *zap.Logger
	baseMu     sync.RWMutex
)

// InitLogger builds the base logger from a level name (debug, info, warn,
// error) and a format (json or console), installs it and returns it.
func InitLogger(level, format string) (*zap.Logger, error) {
	atomicLevel := zap.NewAtomicLevel()
	if level != "" {
		if err := atomicLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	cfg := zap.NewProductionConfig()
	if strings.EqualFold(format, LogFormatConsole) {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = atomicLevel

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	SetLogger(logger)
	return logger, nil
}

// SetLogger replaces the base logger. Tests install zap.NewNop() or an
// observer core here.
func SetLogger(logger *zap.Logger) {
	baseMu.Lock()
	baseLogger = logger
	baseMu.Unlock()
}

func base() *zap.Logger {
	baseMu.RLock()
	logger := baseLogger
	baseMu.RUnlock()

	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

// FromContext returns the base logger annotated with the trace, request,
// provider and model ids carried by ctx. Empty values are left out.
func FromContext(ctx context.Context) *zap.Logger {
	fields := make([]zap.Field, 0, len(contextFields))
	for _, f := range contextFields {
		if value := f.get(ctx); value != "" {
			fields = append(fields, zap.String(f.name, value))
		}
	}
	return base().With(fields...)
}
