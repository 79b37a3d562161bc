package lock

import (
	"context"
)

// Locker guards the read-modify-write cycle of the record stores.
type Locker interface {
	Acquire(ctx context.Context) error

	Release(ctx context.Context) error

	Initialize(ctx context.Context) error
}

// MutexLocker serializes callers inside one process. When next is set it is
// taken after the local lock, so a shared lock is only contended between
// processes.
type MutexLocker struct {
	sem  chan struct{}
	next Locker
}

func NewMutexLocker(next Locker) *MutexLocker {
	return &MutexLocker{
		sem:  make(chan struct{}, 1),
		next: next,
	}
}

// Acquire waits for the local lock until ctx is done.
func (m *MutexLocker) Acquire(ctx context.Context) error {
	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	if m.next == nil {
		return nil
	}
	if err := m.next.Acquire(ctx); err != nil {
		<-m.sem
		return err
	}
	return nil
}

// Release frees the local lock even when releasing next fails.
func (m *MutexLocker) Release(ctx context.Context) error {
	var err error
	if m.next != nil {
		err = m.next.Release(ctx)
	}
	<-m.sem
	return err
}

func (m *MutexLocker) Initialize(ctx context.Context) error {
	if m.next == nil {
		return nil
	}
	return m.next.Initialize(ctx)
}
