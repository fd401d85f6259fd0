//go:build linux && (amd64 || arm64)

package sysvsem_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/richinsley/sysvsem"
)

func Example() {
	sem, err := sysvsem.Anonymous(1)
	if err != nil {
		fmt.Println("create:", err)
		return
	}
	defer sem.Close()

	// One token is available, so this returns immediately.
	sem.Wait()
	fmt.Println("after wait:", sem)

	// The count is now zero; a non-blocking attempt reports that instead
	// of blocking.
	if err := sem.TryAcquire(); errors.Is(err, sysvsem.ErrNoToken) {
		fmt.Println("no token available")
	}

	if err := sem.Release(); err != nil {
		fmt.Println("release:", err)
		return
	}
	fmt.Println("after release:", sem)

	// Output:
	// after wait: Semaphore(0/32767)
	// no token available
	// after release: Semaphore(1/32767)
}

func ExampleSemaphore_TryAcquireUntil() {
	sem, err := sysvsem.Anonymous(0)
	if err != nil {
		fmt.Println("create:", err)
		return
	}
	defer sem.Close()

	// Hand a token over from another goroutine while this one blocks with
	// a generous deadline.
	go func() {
		_ = sem.Release()
	}()

	switch err := sem.TryAcquireUntil(time.Now().Add(10 * time.Second)); {
	case err == nil:
		fmt.Println("acquired")
	case errors.Is(err, sysvsem.ErrNoToken):
		fmt.Println("deadline passed")
	}

	// Output:
	// acquired
}
