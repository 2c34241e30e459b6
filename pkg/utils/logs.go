package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var nodeLog bool
var serverLog bool
var logger = newLogger()

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// InitLog enables compute (node) and server logs. Warnings are always logged.
func InitLog(node, server bool) {
	nodeLog = node
	serverLog = server
}

// SetLogger replaces the underlying logger.
func SetLogger(l *zap.Logger) {
	logger = l.Sugar()
}

func SyncLog() {
	_ = logger.Sync()
}

func ServerLog(format string, v ...any) {
	if serverLog {
		logger.Named("server").Info(fmt.Sprintf(format, v...))
	}
}

func ComputeLog(estimator string, format string, v ...any) {
	if nodeLog {
		logger.Named("compute").Infow(fmt.Sprintf(format, v...), "estimator", estimator)
	}
}

func WarnLog(role string, format string, v ...any) {
	logger.Named(role).Warn(fmt.Sprintf(format, v...))
}
