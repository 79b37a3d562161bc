package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type countingLocker struct {
	acquireErr error
	acquired   int
	released   int
	inits      int
}

func (c *countingLocker) Acquire(ctx context.Context) error {
	if c.acquireErr != nil {
		return c.acquireErr
	}
	c.acquired++
	return nil
}

func (c *countingLocker) Release(ctx context.Context) error {
	c.released++
	return nil
}

func (c *countingLocker) Initialize(ctx context.Context) error {
	c.inits++
	return nil
}

func TestMutexLocker_SerializesCallers(t *testing.T) {
	locker := NewMutexLocker(nil)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := locker.Acquire(ctx); err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			_ = locker.Release(ctx)
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("%d callers held the lock at once", maxSeen)
	}
}

func TestMutexLocker_AcquireHonoursContext(t *testing.T) {
	locker := NewMutexLocker(nil)
	if err := locker.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := locker.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}

	_ = locker.Release(context.Background())
	if err := locker.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
}

func TestMutexLocker_NestsSharedLock(t *testing.T) {
	shared := &countingLocker{}
	locker := NewMutexLocker(shared)
	ctx := context.Background()

	if err := locker.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := locker.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := locker.Release(ctx); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if shared.inits != 1 || shared.acquired != 1 || shared.released != 1 {
		t.Fatalf("shared lock saw %+v", shared)
	}

	busy := errors.New("busy")
	shared.acquireErr = busy
	if err := locker.Acquire(ctx); !errors.Is(err, busy) {
		t.Fatalf("expected shared lock error, got %v", err)
	}

	// the local lock must have been given back after the failure
	shared.acquireErr = nil
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := locker.Acquire(ctx); err != nil {
		t.Fatalf("Acquire after failed shared acquire: %v", err)
	}
}
