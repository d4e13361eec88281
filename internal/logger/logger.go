package logger

import (
	"go.uber.org/zap"

	"github.com/abhisek/aptiz/internal/config"
)

// New builds the application logger. Production gets zap's JSON output;
// everything else gets the development console format, at info level
// unless verbose asks for the operation-by-operation debug stream.
func New(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	if cfg.Env == "production" {
		return zap.NewProduction()
	}

	zcfg := zap.NewDevelopmentConfig()
	if !verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return zcfg.Build()
}
