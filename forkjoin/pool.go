package forkjoin

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/kbukum/gostream/errors"
	"github.com/kbukum/gostream/logger"
)

// Pool bounds the number of tasks computing at once.
type Pool struct {
	cfg Config
	sem *semaphore.Weighted
	log *logger.Logger
}

// NewPool creates a pool from cfg. Zero fields take their defaults.
func NewPool(cfg Config) *Pool {
	cfg.ApplyDefaults()
	p := &Pool{
		cfg: cfg,
		sem: semaphore.NewWeighted(int64(cfg.Parallelism)),
		log: logger.WithComponent("forkjoin"),
	}
	p.log.Debug("pool created", logger.Fields(
		"parallelism", cfg.Parallelism,
		"leaf_target_factor", cfg.LeafTargetFactor,
	))
	return p
}

var (
	defaultPool *Pool
	defaultMu   sync.Mutex
)

// Default returns the process-wide pool, sized to GOMAXPROCS on first use.
func Default() *Pool {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultPool == nil {
		defaultPool = NewPool(Config{})
	}
	return defaultPool
}

// SetDefault replaces the process-wide pool.
func SetDefault(p *Pool) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultPool = p
}

// Parallelism returns the number of worker slots.
func (p *Pool) Parallelism() int { return p.cfg.Parallelism }

// Config returns the pool configuration with defaults applied.
func (p *Pool) Config() Config { return p.cfg }

// Run executes fn while holding a worker slot. It blocks until a slot is
// free or ctx is done. A panic in fn is recovered and returned as an error.
func (p *Pool) Run(ctx context.Context, fn func() error) (err error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	defer errors.Recover(&err)
	return fn()
}

// SuggestTargetSize returns the fragment size at or below which a task over
// a source of sizeEstimate elements should stop splitting and compute
// sequentially.
func (p *Pool) SuggestTargetSize(sizeEstimate int64) int64 {
	est := sizeEstimate / int64(p.cfg.Parallelism*p.cfg.LeafTargetFactor)
	if est < p.cfg.MinLeafSize {
		est = p.cfg.MinLeafSize
	}
	if est < 1 {
		est = 1
	}
	return est
}
