package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingyamilmolinar/avsync/internal/render"
)

type countingTicker struct {
	mu    sync.Mutex
	calls int
	sizes [][2]int
}

func (c *countingTicker) Tick(w, h int) render.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.sizes = append(c.sizes, [2]int{w, h})
	return render.Frame{Width: w, Height: h}
}

func (c *countingTicker) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestEngineTicksAndPublishesFrames(t *testing.T) {
	ct := &countingTicker{}
	e := New(context.Background(), ct, WithInterval(time.Millisecond), WithSize(320, 200))
	defer e.Close()

	select {
	case f := <-e.Frames:
		assert.Equal(t, 320, f.Width)
		assert.Equal(t, 200, f.Height)
	case <-time.After(time.Second):
		t.Fatal("no frame published")
	}
	assert.Eventually(t, func() bool { return ct.count() >= 3 }, time.Second, time.Millisecond)
}

func TestEngineNeverBlocksOnSlowReader(t *testing.T) {
	ct := &countingTicker{}
	e := New(context.Background(), ct, WithInterval(time.Millisecond))
	defer e.Close()
	assert.Eventually(t, func() bool { return ct.count() > cap(e.Frames)+5 }, 2*time.Second, time.Millisecond)
}

func TestEngineResize(t *testing.T) {
	ct := &countingTicker{}
	e := New(context.Background(), ct, WithInterval(time.Millisecond))
	defer e.Close()
	e.Resize(100, 50)
	assert.Eventually(t, func() bool {
		for {
			select {
			case f := <-e.Frames:
				if f.Width == 100 && f.Height == 50 {
					return true
				}
			default:
				return false
			}
		}
	}, time.Second, time.Millisecond)
}

func TestEngineCloseIsIdempotent(t *testing.T) {
	ct := &countingTicker{}
	e := New(context.Background(), ct, WithInterval(time.Millisecond))
	e.Close()
	e.Close()
	n := ct.count()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, n, ct.count())
}

func TestEngineStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e := New(ctx, &countingTicker{}, WithInterval(time.Millisecond))
	cancel()
	select {
	case <-e.Done():
	case <-time.After(time.Second):
		require.Fail(t, "loop did not stop")
	}
	e.Close()
}

func TestEngineClosesFramesOnExit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e := New(ctx, &countingTicker{}, WithInterval(time.Millisecond))
	cancel()
	<-e.Done()
	for range e.Frames {
	}
	_, ok := <-e.Frames
	assert.False(t, ok)
	e.Close()
}
