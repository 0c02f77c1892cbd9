package msg

import (
	"context"
	"sync/atomic"

	"github.com/jackc/puddle/v2"
)

// Pool is a bounded allocator of messages. A message obtained from Get goes
// back to the pool when its last reference is released.
type Pool struct {
	pool      *puddle.Pool[*Msg]
	created   atomic.Uint64
	destroyed atomic.Uint64
}

// PoolStats is a snapshot of pool activity.
type PoolStats struct {
	AcquireCount      uint64 // Total Get calls that returned a message
	AcquireWaitCount  uint64 // Gets that had to wait for a free message
	AcquireErrors     uint64 // Gets canceled by their context
	AcquireWaitTimeNs uint64 // Total nanoseconds spent waiting
	Created           uint64 // Messages allocated
	Destroyed         uint64 // Messages dropped when the pool closed

	Total    int32 // Messages owned by the pool
	Idle     int32 // Messages ready for reuse
	Acquired int32 // Messages currently referenced
}

// NewPool creates a pool holding at most maxSize messages.
func NewPool(maxSize int32) (*Pool, error) {
	p := &Pool{}

	pool, err := puddle.NewPool(&puddle.Config[*Msg]{
		Constructor: func(ctx context.Context) (*Msg, error) {
			p.created.Add(1)
			return &Msg{}, nil
		},
		Destructor: func(*Msg) {
			p.destroyed.Add(1)
		},
		MaxSize: maxSize,
	})
	if err != nil {
		return nil, err
	}
	p.pool = pool
	return p, nil
}

// Get returns a message holding a single reference, waiting for one to be
// released if the pool is exhausted.
func (p *Pool) Get(ctx context.Context) (*Msg, error) {
	res, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	m := res.Value()
	m.free = func(m *Msg) {
		m.reset()
		m.free = nil
		res.Release()
	}
	m.refs.Store(1)
	return m, nil
}

func (p *Pool) Stats() PoolStats {
	s := p.pool.Stat()
	return PoolStats{
		AcquireCount:      uint64(s.AcquireCount()),
		AcquireWaitCount:  uint64(s.EmptyAcquireCount()),
		AcquireErrors:     uint64(s.CanceledAcquireCount()),
		AcquireWaitTimeNs: uint64(s.EmptyAcquireWaitTime().Nanoseconds()),
		Created:           p.created.Load(),
		Destroyed:         p.destroyed.Load(),
		Total:             s.TotalResources(),
		Idle:              s.IdleResources(),
		Acquired:          s.AcquiredResources(),
	}
}

// Close waits for acquired messages to be released and drops the pool.
func (p *Pool) Close() {
	p.pool.Close()
}
