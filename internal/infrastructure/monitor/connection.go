package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/studyspot/backend/internal/infrastructure/buffer"
)

// Monitor periodically probes the datastore, the session cache and the
// local report buffer. The replay processor consults it before draining
// and the health endpoint exposes its latest snapshot.
type Monitor struct {
	datastore *pgxpool.Pool
	cache     *redislib.Client
	buffer    *buffer.Store
	interval  time.Duration
	logger    *zap.Logger

	mu     sync.RWMutex
	last   Snapshot
	stopCh chan struct{}
}

func New(datastore *pgxpool.Pool, cache *redislib.Client, buf *buffer.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		datastore: datastore,
		cache:     cache,
		buffer:    buf,
		interval:  interval,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
}

// Start probes once immediately, then keeps probing in the background
// until Stop is called.
func (m *Monitor) Start() {
	m.probe()
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

// IsOnline reports whether the primary datastore answered the last probe.
// Buffered reports are only replayed while this is true.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last.Datastore
}

// Snapshot returns the most recent observation.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.probe()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) probe() {
	snap := Snapshot{CheckedAt: time.Now().UTC()}

	if m.datastore != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		snap.Datastore = m.datastore.Ping(ctx) == nil
		cancel()
	}
	if m.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		snap.SessionCache = m.cache.Ping(ctx).Err() == nil
		cancel()
	}
	if m.buffer != nil {
		size, err := m.buffer.Size()
		if err != nil {
			m.logger.Warn("report buffer probe failed", zap.Error(err))
		} else {
			snap.ReportBuffer = true
			snap.PendingReports = size
		}
	}

	m.mu.Lock()
	m.last = snap
	m.mu.Unlock()
}
