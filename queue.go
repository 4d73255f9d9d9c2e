package autoaim

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/swdee/go-autoaim/postprocess"
	"gonum.org/v1/gonum/mat"
)

// Frame is the inference result of one camera image
type Frame struct {
	// Seq is the capture sequence number
	Seq uint64
	// Stamp is the capture time
	Stamp time.Time
	// Width and Height are the source image dimensions
	Width  int
	Height int
	// Tensor is the network output for the frame
	Tensor *postprocess.Tensor
	// Transform maps network input coordinates onto the source image
	Transform mat.Matrix
}

// DropPolicy decides which frame is discarded when the queue is full
type DropPolicy int

const (
	// DropNewest discards the frame being pushed
	DropNewest DropPolicy = iota
	// DropOldest discards the oldest queued frame to make room
	DropOldest
)

// FrameQueue hands frames from a single producer to a single consumer
// without ever blocking the producer
type FrameQueue struct {
	frames  chan Frame
	policy  DropPolicy
	dropped atomic.Uint64
	close   sync.Once
}

// NewFrameQueue returns a queue holding up to size frames
func NewFrameQueue(size int, policy DropPolicy) *FrameQueue {

	if size < 1 {
		size = 1
	}

	return &FrameQueue{
		frames: make(chan Frame, size),
		policy: policy,
	}
}

// Push queues a frame, discarding one per the drop policy if the queue is
// full.  It reports whether f was queued.  Push must not be called after
// Close.
func (q *FrameQueue) Push(f Frame) bool {

	for {
		select {
		case q.frames <- f:
			return true
		default:
		}

		if q.policy == DropNewest {
			q.dropped.Add(1)
			return false
		}

		// make room, the consumer may have done so already
		select {
		case <-q.frames:
			q.dropped.Add(1)
		default:
		}
	}
}

// Frames returns the channel the consumer reads from.  It is closed by Close.
func (q *FrameQueue) Frames() <-chan Frame {
	return q.frames
}

// Dropped returns the number of frames discarded so far
func (q *FrameQueue) Dropped() uint64 {
	return q.dropped.Load()
}

// Close closes the queue, frames already queued can still be read
func (q *FrameQueue) Close() {
	q.close.Do(func() {
		close(q.frames)
	})
}
