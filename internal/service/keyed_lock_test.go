package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLocker_SerialisesSameKey(t *testing.T) {
	l := NewKeyedLocker(quietLogger(), time.Hour, time.Hour)
	defer l.Stop()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("invoice-1")
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyedLocker_IndependentKeys(t *testing.T) {
	l := NewKeyedLocker(quietLogger(), time.Hour, time.Hour)
	defer l.Stop()

	unlockA := l.Lock("a")
	done := make(chan struct{})
	go func() {
		unlock := l.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
	unlockA()
}

func TestKeyedLocker_ReapsIdleEntries(t *testing.T) {
	l := NewKeyedLocker(quietLogger(), time.Hour, time.Minute)
	defer l.Stop()

	l.Lock("idle")()
	held := l.Lock("held")

	assert.Equal(t, 0, l.reap(time.Now()))
	assert.Equal(t, 1, l.reap(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 1, l.size())

	held()
	l.Lock("idle")()
}

func TestKeyedLocker_StopIsIdempotent(t *testing.T) {
	l := NewKeyedLocker(quietLogger(), time.Millisecond, time.Millisecond)
	l.Stop()
	l.Stop()
}
