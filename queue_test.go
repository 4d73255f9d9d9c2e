package autoaim

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(q *FrameQueue) []uint64 {
	var seqs []uint64
	for f := range q.Frames() {
		seqs = append(seqs, f.Seq)
	}
	return seqs
}

func TestFrameQueueDropNewest(t *testing.T) {

	q := NewFrameQueue(2, DropNewest)

	assert.True(t, q.Push(Frame{Seq: 1}))
	assert.True(t, q.Push(Frame{Seq: 2}))
	assert.False(t, q.Push(Frame{Seq: 3}))
	assert.Equal(t, uint64(1), q.Dropped())

	q.Close()
	assert.Equal(t, []uint64{1, 2}, drain(q))
}

func TestFrameQueueDropOldest(t *testing.T) {

	q := NewFrameQueue(2, DropOldest)

	for seq := uint64(1); seq <= 5; seq++ {
		assert.True(t, q.Push(Frame{Seq: seq}))
	}

	assert.Equal(t, uint64(3), q.Dropped())

	q.Close()
	assert.Equal(t, []uint64{4, 5}, drain(q))
}

func TestFrameQueueMinimumSize(t *testing.T) {

	q := NewFrameQueue(0, DropOldest)

	q.Push(Frame{Seq: 1})
	q.Push(Frame{Seq: 2})

	q.Close()
	assert.Equal(t, []uint64{2}, drain(q))
}

func TestFrameQueueCloseTwice(t *testing.T) {

	q := NewFrameQueue(1, DropNewest)

	q.Close()
	assert.NotPanics(t, q.Close)
}

func TestFrameQueueConcurrentConsumer(t *testing.T) {

	const frames = 1000

	q := NewFrameQueue(4, DropOldest)

	var (
		wg   sync.WaitGroup
		seqs []uint64
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		seqs = drain(q)
	}()

	for seq := uint64(1); seq <= frames; seq++ {
		require.True(t, q.Push(Frame{Seq: seq}))
	}

	q.Close()
	wg.Wait()

	// every frame is either consumed once or counted as dropped, in order
	assert.Equal(t, uint64(frames), uint64(len(seqs))+q.Dropped())
	assert.IsIncreasing(t, seqs)
	assert.Equal(t, uint64(frames), seqs[len(seqs)-1])
}
