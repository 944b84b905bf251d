package flux

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// manualLoop is a minimal cooperative event loop driven from tests.
type manualLoop struct {
	queue    []func()
	paused   bool
	finished bool
}

func (l *manualLoop) Async(fn func()) { l.queue = append(l.queue, fn) }
func (l *manualLoop) Finish()         { l.finished = true }
func (l *manualLoop) Pause()          { l.paused = true }
func (l *manualLoop) Resume()         { l.paused = false }

// drain runs queued work until the loop is empty, paused, or finished.
func (l *manualLoop) drain() {
	for !l.finished && !l.paused && len(l.queue) > 0 {
		fn := l.queue[0]
		l.queue = l.queue[1:]
		fn()
	}
}

func newTestContext(t *testing.T, actions ActionSet, rec *recorder) (Context, *manualLoop) {
	t.Helper()
	loop := &manualLoop{}
	ctx := NewContext(DispatcherFunc(actions, rec.sink()), loop, NewDeps())
	return ctx, loop
}

func TestLoopHandle(t *testing.T) {
	t.Run("async work runs FIFO", func(t *testing.T) {
		ctx, loop := newTestContext(t, Actions(ActionOf[saveAction]()), &recorder{})
		var got []int
		ctx.Loop().Async(func() { got = append(got, 1) })
		ctx.Loop().Async(func() { got = append(got, 2) })
		loop.drain()
		require.Equal(t, []int{1, 2}, got)
	})

	t.Run("pause stops dequeuing without cancelling queued work", func(t *testing.T) {
		ctx, loop := newTestContext(t, Actions(ActionOf[saveAction]()), &recorder{})
		var ran bool
		ctx.Loop().Async(func() { ran = true })
		ctx.Loop().Pause()
		loop.drain()
		require.False(t, ran)

		ctx.Loop().Resume()
		loop.drain()
		require.True(t, ran)
	})

	t.Run("finish forwards to the loop", func(t *testing.T) {
		ctx, loop := newTestContext(t, Actions(ActionOf[saveAction]()), &recorder{})
		ctx.Loop().Finish()
		require.True(t, loop.finished)
	})

	t.Run("handle carries the context trace ID", func(t *testing.T) {
		ctx, _ := newTestContext(t, Actions(ActionOf[saveAction]()), &recorder{})
		require.NotEmpty(t, ctx.Loop().ID())
		require.Equal(t, ctx.TraceID(), ctx.Loop().ID())
	})
}
