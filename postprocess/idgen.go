package postprocess

import "sync/atomic"

// idGenerator hands out incrementing detection IDs and is safe for
// concurrent use
type idGenerator struct {
	id atomic.Int64
}

func newIDGenerator() *idGenerator {
	return &idGenerator{}
}

// GetNext returns the next ID
func (g *idGenerator) GetNext() int64 {
	return g.id.Add(1)
}
