package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Structured log keys and values shared across components.
const (
	KeyError        = "error"
	KeyResult       = "result"
	KeyRetry        = "retry"
	KeyRequeue      = "requeue"
	KeyWorkerID     = "workerId"
	KeyProvider     = "provider"
	KeyRunID        = "runId"
	KeyInstanceType = "instanceType"

	ValueSuccess = "success"
	ValueFail    = "fail"
	ValueTrue    = "true"
	ValueFalse   = "false"
)

// NewLogger returns a JSON-encoded sugared logger writing to stdout.
func NewLogger(logLevel zapcore.Level) *zap.SugaredLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.Lock(os.Stdout),
		logLevel,
	)

	return zap.New(core).Sugar()
}
