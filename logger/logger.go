package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	once  sync.Once
	sugar *zap.SugaredLogger
)

// Init builds the process-wide logger. Mode "production" gives JSON output,
// anything else the development console encoder.
func Init(mode string) {
	once.Do(func() {
		var cfg zap.Config
		switch strings.ToLower(mode) {
		case "prod", "production":
			cfg = zap.NewProductionConfig()
		default:
			cfg = zap.NewDevelopmentConfig()
		}
		zl, err := cfg.Build(zap.AddCallerSkip(1))
		if err != nil {
			zl = zap.NewNop()
		}
		sugar = zl.Sugar()
	})
}

// L returns the shared sugared logger, initializing a development logger
// if Init was never called (tests).
func L() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}

func Debug(msg string, keysAndValues ...interface{}) { L().Debugw(msg, keysAndValues...) }
func Info(msg string, keysAndValues ...interface{})  { L().Infow(msg, keysAndValues...) }
func Warn(msg string, keysAndValues ...interface{})  { L().Warnw(msg, keysAndValues...) }
func Error(msg string, keysAndValues ...interface{}) { L().Errorw(msg, keysAndValues...) }
func Fatal(msg string, keysAndValues ...interface{}) { L().Fatalw(msg, keysAndValues...) }
