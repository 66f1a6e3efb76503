// Package qlog provides a logging interface for sparq packages.
package qlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the qlog logging interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

var logger Logger = newZapLogger()

// SetLogger sets the qlog logging implementation.
func SetLogger(l Logger) { logger = l }

var verbosity int

// V returns whether the current qlog verbosity is above the specified level.
func V(level int) bool { return verbosity >= level }

// SetV sets the qlog verbosity level.
func SetV(level int) { verbosity = level }

// Quiet suppresses everything below the error level in the default backend.
func Quiet() { level.SetLevel(zapcore.ErrorLevel) }

// Infof logs information level messages.
func Infof(format string, args ...interface{}) {
	if logger != nil {
		logger.Infof(format, args...)
	}
}

// Warningf logs warning level messages.
func Warningf(format string, args ...interface{}) {
	if logger != nil {
		logger.Warningf(format, args...)
	}
}

// Errorf logs error level messages.
func Errorf(format string, args ...interface{}) {
	if logger != nil {
		logger.Errorf(format, args...)
	}
}

// Fatalf logs fatal messages and terminates the program.
func Fatalf(format string, args ...interface{}) {
	if logger != nil {
		logger.Fatalf(format, args...)
	}
}

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// zaplog adapts a zap sugared logger to the Logger interface. Results go
// to stdout, so all logging stays on stderr.
type zaplog struct {
	s *zap.SugaredLogger
}

func newZapLogger() Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	return zaplog{s: zap.Must(cfg.Build()).Sugar()}
}

func (z zaplog) Infof(format string, args ...interface{})    { z.s.Infof(format, args...) }
func (z zaplog) Warningf(format string, args ...interface{}) { z.s.Warnf(format, args...) }
func (z zaplog) Errorf(format string, args ...interface{})   { z.s.Errorf(format, args...) }
func (z zaplog) Fatalf(format string, args ...interface{})   { z.s.Fatalf(format, args...) }
