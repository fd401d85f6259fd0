//go:build !(linux && (amd64 || arm64))

package sysvsem

import "time"

// sem is a stub implementation for platforms without System V semaphore
// syscalls. Anonymous always fails with ErrNotSupported, so no method below
// is reachable on a constructed handle.
type sem struct{}

func newSem(initial int) (*sem, error) {
	return nil, ErrNotSupported
}

func (s *sem) wait() {
	panic("sysvsem: not supported on this platform")
}

func (s *sem) tryWait() error {
	panic("sysvsem: not supported on this platform")
}

func (s *sem) timedWait(deadline time.Time) error {
	panic("sysvsem: not supported on this platform")
}

func (s *sem) post() error {
	panic("sysvsem: not supported on this platform")
}

func (s *sem) value() int {
	panic("sysvsem: not supported on this platform")
}

func (s *sem) close() {}
