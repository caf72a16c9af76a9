package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// KeyedLocker serialises work per key (a treatment or invoice id) inside one process.
// Cross-process safety comes from the version checks in the database.
//
// Entries unused for longer than the stale threshold are reaped by a background
// goroutine. Call Stop() during graceful shutdown.
type KeyedLocker struct {
	log *logrus.Logger

	locks sync.Map // map[string]*mutexWithTimestamp

	cleanupInterval time.Duration
	staleThreshold  time.Duration

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	holders  atomic.Int32
	lastUsed atomic.Int64 // Unix nano timestamp
}

func NewKeyedLocker(log *logrus.Logger, cleanupInterval, staleThreshold time.Duration) *KeyedLocker {
	l := &KeyedLocker{
		log:             log,
		cleanupInterval: cleanupInterval,
		staleThreshold:  staleThreshold,
		stopChan:        make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Lock blocks until key is free and returns the matching unlock function.
func (l *KeyedLocker) Lock(key string) func() {
	for {
		value, _ := l.locks.LoadOrStore(key, &mutexWithTimestamp{})
		m := value.(*mutexWithTimestamp)
		m.holders.Add(1)
		m.mu.Lock()

		// The entry may have been reaped between LoadOrStore and Lock.
		if current, ok := l.locks.Load(key); !ok || current != m {
			m.holders.Add(-1)
			m.mu.Unlock()
			continue
		}

		m.lastUsed.Store(time.Now().UnixNano())
		return func() {
			m.lastUsed.Store(time.Now().UnixNano())
			m.holders.Add(-1)
			m.mu.Unlock()
		}
	}
}

// Stop gracefully shuts down the cleanup loop.
// Safe to call multiple times.
func (l *KeyedLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("KeyedLocker stopped")
	}
}

func (l *KeyedLocker) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := l.reap(time.Now()); removed > 0 {
				l.log.Debugf("Cleaned up %d stale locks", removed)
			}
		case <-l.stopChan:
			return
		}
	}
}

// reap removes entries nobody holds or waits on and that have been idle past the threshold.
func (l *KeyedLocker) reap(now time.Time) int {
	removed := 0
	cutoff := now.Add(-l.staleThreshold).UnixNano()

	l.locks.Range(func(key, value interface{}) bool {
		m := value.(*mutexWithTimestamp)
		if m.holders.Load() > 0 || m.lastUsed.Load() > cutoff {
			return true
		}
		if m.mu.TryLock() {
			if m.holders.Load() == 0 {
				l.locks.Delete(key)
				removed++
			}
			m.mu.Unlock()
		}
		return true
	})
	return removed
}

func (l *KeyedLocker) size() int {
	n := 0
	l.locks.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
