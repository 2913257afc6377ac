package cache

import (
	"time"

	"plata/internal/log"
)

// Cleaner is any cache whose expired entries can be swept.
type Cleaner interface {
	CleanExpired() int
}

// Manager sweeps registered caches on a fixed interval so expired forecast
// and rate entries do not linger until their next lookup.
type Manager struct {
	logger  *log.Logger
	cleaner []Cleaner
	stop    chan struct{}
	done    chan struct{}
}

func NewManager(logger *log.Logger) *Manager {
	return &Manager{
		logger: logger.WithComponent(log.ComponentCache),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Register adds a cache to the sweep set. Not safe to call after Start.
func (m *Manager) Register(c Cleaner) {
	m.cleaner = append(m.cleaner, c)
}

// Start begins the periodic sweep in its own goroutine.
func (m *Manager) Start(interval time.Duration) {
	go m.run(interval)
}

func (m *Manager) run(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			swept := 0
			for _, c := range m.cleaner {
				swept += c.CleanExpired()
			}
			if swept > 0 {
				m.logger.Debug("swept expired cache entries", "count", swept)
			}
		case <-m.stop:
			return
		}
	}
}

// Stop ends the sweep goroutine and waits for it to exit.
func (m *Manager) Stop() {
	close(m.stop)
	<-m.done
}
