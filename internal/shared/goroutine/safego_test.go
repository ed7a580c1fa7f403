package goroutine

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piprapay/ppgateway/internal/shared/logger"
)

func TestSafeGo_RecoversPanic(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)

	SafeGo(logger.NewDiscardLogger(), "boom", func() {
		defer wg.Done()
		panic("boom")
	})

	wg.Wait()
}

func TestRun_DeliversResult(t *testing.T) {
	want := errors.New("listen failed")

	err, ok := <-Run(logger.NewDiscardLogger(), "listener", func() error { return want })
	require.True(t, ok)
	assert.ErrorIs(t, err, want)

	_, ok = <-Run(logger.NewDiscardLogger(), "listener", func() error { return nil })
	assert.True(t, ok)
}

func TestRun_PanicBecomesError(t *testing.T) {
	errCh := Run(logger.NewDiscardLogger(), "listener", func() error { panic("bad state") })

	err := <-errCh
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listener panicked: bad state")

	_, open := <-errCh
	assert.False(t, open)
}
