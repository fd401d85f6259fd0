// Package sysvsem provides an anonymous counting semaphore backed by a
// kernel synchronization object, for coordinating goroutines and OS threads
// through a primitive whose blocking and waking is done entirely by the
// operating system.
//
// A semaphore holds a count of available tokens. Wait takes a token,
// blocking while the count is zero; Release puts one back, waking at most
// one blocked waiter. TryAcquire and TryAcquireUntil are the non-blocking
// and deadline-bounded variants.
//
// # Why a kernel object
//
// Go already has excellent in-process semaphores (buffered channels,
// golang.org/x/sync/semaphore). This package exists for the cases where the
// count must live in a real kernel object: interoperating with code that
// expects OS semaphore semantics, pinning the blocking behaviour to the
// scheduler of the operating system rather than the Go runtime, or simply
// needing the exact POSIX-style result model (would-block, timed-out,
// overflow) of the underlying primitive.
//
// The implementation delegates every operation to a System V semaphore set
// of size one, created with IPC_PRIVATE so it is anonymous: it has no name
// or key another process could look up. This package adds no queueing,
// no condition variables and no locking of its own; it only makes the
// primitive safe to own and ergonomic to call.
//
// # Result model
//
// Callers see exactly three kinds of outcome:
//
//   - success, returned as nil (or no return value at all for Wait);
//   - expected conditions, returned as the sentinel errors ErrNoToken and
//     ErrOverflow for callers to branch on;
//   - internal-consistency violations, such as an "impossible" errno from a
//     valid handle or teardown failing, which panic because they indicate a
//     corrupted kernel object where continuing cannot be made safe.
//
// Interruption of a blocked operation by a signal is never visible to the
// caller; every blocking and semi-blocking operation retries it internally.
//
// # Lifecycle
//
// Construction with Anonymous either returns a fully initialized handle or
// an error with nothing left behind in the kernel. Close removes the kernel
// object and must be the last use of the handle. Because a System V object
// survives the process unless removed, handles that are garbage-collected
// without Close have the object removed by a GC cleanup as a backstop; do
// not rely on it for timely release.
//
// # Platform support
//
// The real implementation requires Linux on amd64 or arm64, where the
// semget/semctl/semtimedop syscalls are available to Go without CGO. On
// other platforms Anonymous returns ErrNotSupported.
package sysvsem
