package lifecycle

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockRegistrySerializesSameIdentity(t *testing.T) {
	r := newLockRegistry()

	var inCritical, maxInCritical int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := r.acquire("desktop_alice")
			defer release()

			mu.Lock()
			inCritical++
			if inCritical > maxInCritical {
				maxInCritical = inCritical
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inCritical--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInCritical)
}

func TestLockRegistryAllowsDistinctIdentitiesConcurrently(t *testing.T) {
	r := newLockRegistry()

	releaseA := r.acquire("a")
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB := r.acquire("b")
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquire on a distinct identity blocked behind an unrelated lock")
	}
}

func TestLockRegistryDropsUncontendedEntries(t *testing.T) {
	r := newLockRegistry()

	release := r.acquire("desktop_alice")
	require.Equal(t, 1, r.size())
	release()

	assert.Equal(t, 0, r.size())
}
