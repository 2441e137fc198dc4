package stream

import (
	"github.com/kbukum/gostream/config"
	"github.com/kbukum/gostream/forkjoin"
	"github.com/kbukum/gostream/logger"
)

// Configure applies cfg to the process: it installs the global logger and
// replaces the default pool used by parallel streams without an explicit
// WithPool. Tracing and metrics exporters are left to the caller since
// their providers need shutting down.
func Configure(cfg *config.EngineConfig) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Init(&cfg.Logging)
	forkjoin.SetDefault(forkjoin.NewPool(cfg.Pool))
	logger.WithComponent("stream").Debug("engine configured", logger.Fields(
		"name", cfg.Name,
		logger.FieldParallelism, cfg.Pool.Parallelism,
	))
	return nil
}
