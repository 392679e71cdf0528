package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/config"
)

// New builds the process logger. Production uses JSON output at info level,
// everything else a colored console at debug level.
func New(cfg *config.Config, service string) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := zc.Build()
	if err != nil {
		return nil, err
	}

	return l.With(zap.String("service", service), zap.String("env", cfg.Env)), nil
}
