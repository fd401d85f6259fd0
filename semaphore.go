package sysvsem

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoToken is returned by TryAcquire, TryAcquireUntil and TryAcquireFor
	// when no token could be taken before the attempt ended. It is an expected,
	// recoverable outcome, not a defect; callers are meant to branch on it with
	// errors.Is.
	ErrNoToken = errors.New("sysvsem: no token available")

	// ErrOverflow is returned by Release when the count already sits at
	// MaxValue and one more token would not be representable. The count is
	// left unchanged. Seeing this error usually means a call site releases
	// more tokens than it ever acquired.
	ErrOverflow = errors.New("sysvsem: semaphore counter overflow")

	// ErrNotSupported is returned by Anonymous on platforms without System V
	// semaphore syscalls (anything other than linux amd64/arm64).
	ErrNotSupported = errors.New("sysvsem: System V semaphores are not supported on this platform")
)

// MaxValue is the largest count the kernel object can hold (SEMVMX).
// Anonymous rejects initial counts above it and Release reports ErrOverflow
// when an increment would exceed it.
const MaxValue = 32767

// Semaphore is a counting semaphore backed by a kernel System V semaphore
// set of size one, created with IPC_PRIVATE so it is anonymous: no other
// process can look it up by name or key. Each handle owns exactly one kernel
// object for its whole lifetime; handles are not cloneable into independent
// semaphores.
//
// A Semaphore is safe for concurrent use by any number of goroutines without
// external locking. All mutation of the count happens atomically inside the
// kernel; this package adds no locking layer of its own. Share one handle by
// pointer, typically captured by the goroutines that coordinate through it.
//
// The kernel object is not cleaned up by the operating system when the
// process exits abnormally without removing it, so every handle should be
// closed with Close when no longer needed:
//
//	sem, err := sysvsem.Anonymous(1)
//	if err != nil {
//	    return err
//	}
//	defer sem.Close()
//
//	sem.Wait()
//	// critical section
//	sem.Release()
//
// As a backstop, a handle that becomes unreachable without Close has its
// kernel object removed by the garbage collector.
type Semaphore struct {
	// s is the platform-specific implementation
	s *sem
}

// Anonymous creates a semaphore with the given starting count, visible only
// through the returned handle. initial must be in [0, MaxValue]; the kernel
// rejects anything else and that error is returned unchanged along with any
// other creation failure (for example ENOSPC when the system-wide semaphore
// limit is exhausted). On failure no kernel object is leaked.
func Anonymous(initial int) (*Semaphore, error) {
	s, err := newSem(initial)
	if err != nil {
		return nil, err
	}
	return &Semaphore{s: s}, nil
}

// Wait acquires one token, blocking the calling goroutine for as long as the
// count is zero. There is no timeout and no error: interruption by a signal
// is retried invisibly, and any other failure reported by the kernel means
// the handle is corrupt or was closed while in use, which panics rather than
// returning control to code that can no longer trust the object.
func (m *Semaphore) Wait() {
	m.s.wait()
}

// TryAcquire attempts to take one token without blocking. It returns nil if
// a token was taken and ErrNoToken if the count was zero.
func (m *Semaphore) TryAcquire() error {
	return m.s.tryWait()
}

// TryAcquireUntil blocks until a token is taken (nil) or the wall-clock
// deadline passes (ErrNoToken), whichever comes first. A deadline that has
// already passed still succeeds if a token is immediately available.
//
// The deadline is absolute. Signal interruption restarts the wait against
// the same deadline, so a call never waits materially longer than asked.
// A deadline before the Unix epoch cannot arise from legitimate time values
// and panics.
func (m *Semaphore) TryAcquireUntil(deadline time.Time) error {
	if deadline.Before(unixEpoch) {
		panic(fmt.Sprintf("sysvsem: deadline %v precedes the Unix epoch", deadline))
	}
	return m.s.timedWait(deadline)
}

// TryAcquireFor is TryAcquireUntil with a relative timeout. The deadline is
// fixed once at the call, so retries after signal interruption do not extend
// the total wait.
func (m *Semaphore) TryAcquireFor(d time.Duration) error {
	return m.TryAcquireUntil(time.Now().Add(d))
}

// Release puts one token back, waking at most one blocked waiter if any
// exist; otherwise the increment is simply recorded for a future acquirer.
// If the count already sits at MaxValue the count is left unchanged and
// ErrOverflow is returned.
func (m *Semaphore) Release() error {
	return m.s.post()
}

// Value returns an instantaneous snapshot of the count. Under concurrent use
// the value may be stale before Value even returns, so it is advisory and
// diagnostic only. In particular, checking Value before Wait or TryAcquire
// is a time-of-check/time-of-use race; call the acquire operation directly
// and branch on its result instead.
func (m *Semaphore) Value() int {
	return m.s.value()
}

// String formats the current count against MaxValue, e.g. "Semaphore(3/32767)".
// Like Value, the snapshot is advisory.
func (m *Semaphore) String() string {
	return fmt.Sprintf("Semaphore(%d/%d)", m.Value(), MaxValue)
}

// Close removes the kernel object. It must not be called while other
// goroutines are still blocked on or using the handle; removing a semaphore
// out from under a waiter is undefined per the primitive's contract, and any
// operation that observes it panics. Close is idempotent: the first call
// tears the object down, later calls do nothing.
//
// Teardown failure on an initialized handle means the object is corrupt and
// panics; there is no safe way to continue once the kernel state backing the
// handle is in doubt.
func (m *Semaphore) Close() {
	m.s.close()
}

var unixEpoch = time.Unix(0, 0)
