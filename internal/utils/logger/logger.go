package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dwarvesf/casper-bridge-relayer/internal/types/environments"
)

type Logger struct {
	wrappedLogger *zap.Logger
}

func New(env environments.Environment) *Logger {
	zapLogger, err := configFor(env).Build(zap.AddCallerSkip(2))
	if err != nil {
		panic(err)
	}

	return &Logger{
		wrappedLogger: zapLogger,
	}
}

// configFor falls back to production for unknown environments.
func configFor(env environments.Environment) zap.Config {
	switch env {
	case environments.Development:
		return newDevelopmentLoggerConfig()
	case environments.Test:
		return newTestLoggerConfig()
	case environments.Staging:
		return newStagingLoggerConfig()
	default:
		return newProductionLoggerConfig()
	}
}

// NewNop returns a logger that drops every entry.
func NewNop() *Logger {
	return &Logger{wrappedLogger: zap.NewNop()}
}

func (l *Logger) Debug(msg string, inputFields ...map[string]string) {
	l.write(zapcore.DebugLevel, msg, inputFields)
}

func (l *Logger) Info(msg string, inputFields ...map[string]string) {
	l.write(zapcore.InfoLevel, msg, inputFields)
}

func (l *Logger) Warn(msg string, inputFields ...map[string]string) {
	l.write(zapcore.WarnLevel, msg, inputFields)
}

func (l *Logger) Error(msg string, inputFields ...map[string]string) {
	l.write(zapcore.ErrorLevel, msg, inputFields)
}

// Fatal logs and then runs the zap fatal hook, which exits the process by default.
func (l *Logger) Fatal(msg string, inputFields ...map[string]string) {
	l.write(zapcore.FatalLevel, msg, inputFields)
}

func (l *Logger) Sync() error {
	return l.wrappedLogger.Sync()
}

func (l *Logger) write(level zapcore.Level, msg string, inputFields []map[string]string) {
	fields := []zap.Field{}
	if len(inputFields) > 0 {
		fields = transformStrMapToFields(inputFields[0])
	}

	switch level {
	case zapcore.DebugLevel:
		l.wrappedLogger.Debug(msg, fields...)
	case zapcore.InfoLevel:
		l.wrappedLogger.Info(msg, fields...)
	case zapcore.WarnLevel:
		l.wrappedLogger.Warn(msg, fields...)
	case zapcore.ErrorLevel:
		l.wrappedLogger.Error(msg, fields...)
	case zapcore.FatalLevel:
		l.wrappedLogger.Fatal(msg, fields...)
	}
}

func transformStrMapToFields(strMap map[string]string) []zap.Field {
	fields := []zap.Field{}
	for k, v := range strMap {
		fields = append(fields, zap.String(k, v))
	}

	return fields
}
