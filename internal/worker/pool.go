// Package worker runs fire-and-forget background tasks on a bounded pool.
package worker

import (
	"time"

	"github.com/alitto/pond"
	"go.uber.org/zap"
)

type Config struct {
	Name        string
	MaxWorkers  int
	MaxCapacity int
	IdleTimeout time.Duration
}

// Pool wraps alitto/pond. Submit never blocks; a task is dropped, logged
// and reported as rejected when the queue is full.
type Pool struct {
	pool   *pond.WorkerPool
	name   string
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Pool {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	if cfg.MaxCapacity <= 0 {
		cfg.MaxCapacity = 64
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	logger = logger.With(zap.String("pool", cfg.Name))

	p := pond.New(
		cfg.MaxWorkers,
		cfg.MaxCapacity,
		pond.MinWorkers(1),
		pond.IdleTimeout(cfg.IdleTimeout),
		pond.Strategy(pond.Balanced()),
		pond.PanicHandler(func(v interface{}) {
			logger.Error("worker pool task panicked", zap.Any("panic", v))
		}),
	)

	return &Pool{pool: p, name: cfg.Name, logger: logger}
}

func (p *Pool) Submit(task func()) bool {
	if !p.pool.TrySubmit(task) {
		p.logger.Warn("worker pool full, task dropped")
		return false
	}
	return true
}

// Stop waits for queued tasks to finish.
func (p *Pool) Stop() {
	p.pool.StopAndWait()
}
