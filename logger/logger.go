// Package logger holds the process wide structured logger used by the
// detector, tracker and pipeline.  It discards everything until Initialize is
// called, so library users that never configure logging pay nothing.
package logger

import (
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger instance
var Logger *zap.SugaredLogger

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize replaces the global logger.  JSON output suits log collectors,
// otherwise a console encoder writing to stderr is used.  level is a zap level
// name such as "debug" or "info".
func Initialize(jsonOutput bool, level string) error {

	lvl, err := zapcore.ParseLevel(level)

	if err != nil {
		return errors.Wrapf(err, "parse log level %q", level)
	}

	var zapLogger *zap.Logger

	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(lvl)
		zapLogger, err = config.Build()

		if err != nil {
			return errors.Wrap(err, "build json logger")
		}

	} else {
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

		zapLogger = zap.New(
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(encoderCfg),
				zapcore.AddSync(os.Stderr),
				lvl,
			),
		)
	}

	Logger = zapLogger.Sugar()
	return nil
}

// Sync flushes any buffered log entries
func Sync() {
	_ = Logger.Sync()
}
