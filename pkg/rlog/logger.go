// Package rlog bootstraps the library's structured logger: a zap
// core wrapped behind logr/zapr so the rest of the module depends on
// the logr.Logger interface rather than zap directly.
package rlog

import (
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const runtimeEnv = "REDISGO_RUNTIME"

// Options configures Init. The zero value logs development-style
// console output to stderr at debug level.
type Options struct {
	// RotateFile, if non-empty, additionally writes JSON-encoded logs
	// to this path through lumberjack with sane rotation defaults.
	RotateFile string
}

func isProdRuntime() bool {
	return strings.EqualFold(os.Getenv(runtimeEnv), "prod")
}

// RawZapLogger builds the underlying *zap.Logger, exposed for callers
// that need zap-specific features logr doesn't surface.
func RawZapLogger(opts Options) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.DebugLevel)
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoding := "console"
	development := true
	if isProdRuntime() {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
		encoderCfg = zap.NewProductionEncoderConfig()
		encoding = "json"
		development = false
	}
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(newEncoder(encoding, encoderCfg), zapcore.Lock(os.Stderr), level),
	}
	if opts.RotateFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.RotateFile,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(rotator), level))
	}

	zapOpts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)}
	if development {
		zapOpts = append(zapOpts, zap.Development())
	}
	zapLogger := zap.New(zapcore.NewTee(cores...), zapOpts...)
	return zapLogger
}

func newEncoder(encoding string, cfg zapcore.EncoderConfig) zapcore.Encoder {
	if encoding == "json" {
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// Init returns the logr.Logger the rest of the module logs through.
func Init(opts Options) logr.Logger {
	return zapr.NewLogger(RawZapLogger(opts))
}
