package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

// Init builds the global zap logger. Production environments get JSON
// output, everything else the console encoder.
func Init(env, lvl string) error {
	var cfg zap.Config
	if strings.EqualFold(env, "production") || strings.EqualFold(env, "prod") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	SetLevel(lvl)
	cfg.Level = level
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(l)

	return nil
}

// SetLevel changes the level of the global logger at runtime. Unknown
// levels fall back to info.
func SetLevel(lvl string) {
	if err := level.UnmarshalText([]byte(strings.ToLower(lvl))); err != nil {
		level.SetLevel(zap.InfoLevel)
	}
}

func Level() zapcore.Level {
	return level.Level()
}
