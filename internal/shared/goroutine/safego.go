// Package goroutine launches background work with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/piprapay/ppgateway/internal/shared/logger"
)

// SafeGo runs fn in a goroutine. A panic is logged with its stack instead of
// crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer recoverPanic(log, name, nil)
		fn()
	}()
}

// Run runs fn in a goroutine and delivers its result, or the recovered panic
// as an error, on the returned channel. The channel is buffered and closed
// after the single send.
func Run(log logger.Interface, name string, fn func() error) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		defer recoverPanic(log, name, errCh)
		errCh <- fn()
	}()
	return errCh
}

func recoverPanic(log logger.Interface, name string, errCh chan<- error) {
	r := recover()
	if r == nil {
		return
	}
	log.Errorw("goroutine panicked",
		"goroutine", name,
		"panic", fmt.Sprintf("%v", r),
		"stack", string(debug.Stack()),
	)
	if errCh != nil {
		errCh <- fmt.Errorf("%s panicked: %v", name, r)
	}
}
