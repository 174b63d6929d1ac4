// Package lifecycle owns orderly startup teardown: components register a
// stop hook as they come up, and on termination the hooks run in reverse
// registration order so dependents stop before their dependencies.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Hook stops one component. It must respect ctx's deadline.
type Hook func(ctx context.Context) error

type entry struct {
	name string
	stop Hook
}

// Manager collects shutdown hooks and runs them when the process is told
// to exit.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	entries []entry
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register adds a named shutdown hook.
func (m *Manager) Register(name string, stop Hook) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry{name: name, stop: stop})
}

// Listen starts a goroutine that waits for SIGINT or SIGTERM and then
// cancels the application context via the provided function.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		m.logger.Info("termination signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}

// Shutdown runs every registered hook in reverse order under the configured
// timeout. A failing hook is logged and does not prevent the rest from
// running; the joined errors are returned.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	var joined error
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		started := time.Now()
		if err := e.stop(ctx); err != nil {
			m.logger.Error("shutdown hook failed",
				zap.String("component", e.name), zap.Error(err))
			joined = errors.Join(joined, err)
			continue
		}
		m.logger.Info("component stopped",
			zap.String("component", e.name),
			zap.Duration("took", time.Since(started)))
	}
	return joined
}
