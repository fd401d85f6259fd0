//go:build linux && (amd64 || arm64)

package sysvsem

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// semctl commands not exported by x/sys/unix (uapi/linux/sem.h).
const (
	semGetVal = 12 // GETVAL
	semSetVal = 16 // SETVAL
)

// sembuf mirrors the kernel's struct sembuf (uapi/linux/sem.h).
type sembuf struct {
	semNum uint16
	semOp  int16
	semFlg int16
}

// sem owns one kernel System V semaphore set of size one, addressed by id.
// Unlike a process-memory semaphore, the kernel object outlives the process
// unless removed, so close (or the GC cleanup backstop) must run exactly once
// per initialized handle.
type sem struct {
	id      int
	closed  atomic.Bool
	cleanup runtime.Cleanup
}

// newSem creates and initializes the kernel object. If semget succeeds but
// setting the starting count fails, the freshly created set is removed before
// the error is returned so the caller never owns a half-initialized object.
func newSem(initial int) (*sem, error) {
	id, _, errno := unix.Syscall(unix.SYS_SEMGET, unix.IPC_PRIVATE, 1, unix.IPC_CREAT|0o600)
	if errno != 0 {
		return nil, fmt.Errorf("sysvsem: semget: %w", errno)
	}
	s := &sem{id: int(id)}

	if _, _, errno := unix.Syscall6(unix.SYS_SEMCTL, id, 0, semSetVal, uintptr(initial), 0, 0); errno != 0 {
		semDestroy(s.id)
		return nil, fmt.Errorf("sysvsem: semctl(SETVAL, %d): %w", initial, errno)
	}

	// Backstop for handles that become unreachable without close. The kernel
	// object would otherwise leak for the remainder of the system's uptime.
	s.cleanup = runtime.AddCleanup(s, semDestroy, s.id)
	return s, nil
}

// op performs a single-semaphore semtimedop. delta is the count adjustment,
// flags goes into sem_flg (IPC_NOWAIT for the non-blocking variant), and a
// nil ts blocks without bound. semtimedop is used even for untimed operations
// because linux/arm64 has no semop syscall.
func (s *sem) op(delta int16, flags int16, ts *unix.Timespec) unix.Errno {
	b := sembuf{semNum: 0, semOp: delta, semFlg: flags}
	var errno unix.Errno
	if ts != nil {
		_, _, errno = unix.Syscall6(unix.SYS_SEMTIMEDOP, uintptr(s.id), uintptr(unsafe.Pointer(&b)), 1, uintptr(unsafe.Pointer(ts)), 0, 0)
	} else {
		_, _, errno = unix.Syscall6(unix.SYS_SEMTIMEDOP, uintptr(s.id), uintptr(unsafe.Pointer(&b)), 1, 0, 0, 0)
	}
	return errno
}

func (s *sem) wait() {
	// Keep the handle reachable for the duration of the blocking syscall so
	// the GC cleanup cannot remove the kernel object under a live waiter.
	defer runtime.KeepAlive(s)

	for {
		switch errno := s.op(-1, 0, nil); errno {
		case 0:
			return
		case unix.EINTR:
			// A signal landed while blocked; the wait is simply restarted.
		default:
			panic(fmt.Sprintf("sysvsem: wait on corrupt or closed semaphore: %v", errno))
		}
	}
}

func (s *sem) tryWait() error {
	defer runtime.KeepAlive(s)

	for {
		switch errno := s.op(-1, int16(unix.IPC_NOWAIT), nil); errno {
		case 0:
			return nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return ErrNoToken
		default:
			panic(fmt.Sprintf("sysvsem: try-acquire on corrupt or closed semaphore: %v", errno))
		}
	}
}

func (s *sem) timedWait(deadline time.Time) error {
	defer runtime.KeepAlive(s)

	for {
		// The remaining budget is recomputed from the same absolute deadline
		// on every iteration, so EINTR retries never extend the total wait.
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		ts := unix.NsecToTimespec(remaining.Nanoseconds())

		switch errno := s.op(-1, 0, &ts); errno {
		case 0:
			return nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return ErrNoToken
		default:
			panic(fmt.Sprintf("sysvsem: timed acquire on corrupt or closed semaphore: %v", errno))
		}
	}
}

func (s *sem) post() error {
	defer runtime.KeepAlive(s)

	// An increment never blocks, so EINTR cannot occur here.
	switch errno := s.op(1, 0, nil); errno {
	case 0:
		return nil
	case unix.ERANGE:
		return ErrOverflow
	default:
		panic(fmt.Sprintf("sysvsem: release on corrupt or closed semaphore: %v", errno))
	}
}

func (s *sem) value() int {
	defer runtime.KeepAlive(s)

	v, _, errno := unix.Syscall6(unix.SYS_SEMCTL, uintptr(s.id), 0, semGetVal, 0, 0, 0)
	if errno != 0 {
		panic(fmt.Sprintf("sysvsem: semctl(GETVAL) on corrupt or closed semaphore: %v", errno))
	}
	return int(v)
}

func (s *sem) close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.cleanup.Stop()
	semDestroy(s.id)
}

// semDestroy removes the kernel object. Removal of a valid, initialized set
// cannot legitimately fail; a failure means the handle no longer refers to
// the object it owns (corruption, or someone else removed it) and there is
// no safe way to continue.
func semDestroy(id int) {
	if _, _, errno := unix.Syscall6(unix.SYS_SEMCTL, uintptr(id), 0, unix.IPC_RMID, 0, 0, 0); errno != 0 {
		panic(fmt.Sprintf("sysvsem: corrupt semaphore: semctl(IPC_RMID): %v", errno))
	}
}
