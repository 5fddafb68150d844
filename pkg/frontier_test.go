package frontier

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFrontier(seeds ...string) *Frontier {
	return NewFrontier(slog.New(slog.NewTextHandler(io.Discard, nil)), seeds...)
}

func TestFrontier_FIFO(t *testing.T) {
	f := newTestFrontier("a")
	f.Push("b")
	f.Push("c")

	var got []string
	for {
		u, ok := f.Pop()
		if !ok {
			break
		}
		got = append(got, u)
	}

	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_RefusesQueuedDuplicate(t *testing.T) {
	f := newTestFrontier("a")

	assert.False(t, f.Push("a"))
	assert.True(t, f.Push("b"))
	assert.False(t, f.Push("b"))
	assert.Equal(t, 2, f.Len())
}

func TestFrontier_RefusesVisited(t *testing.T) {
	f := newTestFrontier("a")

	u, ok := f.Pop()
	require.True(t, ok)
	require.True(t, f.MarkVisited(u))

	assert.False(t, f.Push("a"))
	assert.True(t, f.Seen("a"))
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_PoppedButUnvisitedCanRequeue(t *testing.T) {
	f := newTestFrontier("a")
	_, _ = f.Pop()

	assert.False(t, f.Seen("a"))
	assert.True(t, f.Push("a"))
}

func TestFrontier_MarkVisitedOnce(t *testing.T) {
	f := newTestFrontier()

	assert.True(t, f.MarkVisited("x"))
	assert.False(t, f.MarkVisited("x"))
	assert.True(t, f.MarkVisited("y"))

	assert.Equal(t, 2, f.VisitedCount())
	assert.Equal(t, []string{"x", "y"}, f.Visited())
	assert.True(t, f.IsVisited("x"))
	assert.False(t, f.IsVisited("z"))
}

func TestFrontier_VisitedIsACopy(t *testing.T) {
	f := newTestFrontier()
	f.MarkVisited("x")

	v := f.Visited()
	v[0] = "mutated"

	assert.Equal(t, []string{"x"}, f.Visited())
}
