package executor

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolDefaultSize(t *testing.T) {
	p, err := New(0)
	require.NoError(t, err)
	defer p.Release()

	assert.Equal(t, 10, p.Size())
}

func TestPoolDoReturnsError(t *testing.T) {
	p, err := New(2)
	require.NoError(t, err)
	defer p.Release()

	sentinel := errors.New("backend down")
	assert.ErrorIs(t, p.Do(func() error { return sentinel }), sentinel)
	assert.NoError(t, p.Do(func() error { return nil }))
}

func TestPoolBoundsConcurrency(t *testing.T) {
	p, err := New(2)
	require.NoError(t, err)
	defer p.Release()

	var running, peak atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Do(func() error {
				n := running.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				running.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2), "no more than pool-size tasks may run at once")
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}
