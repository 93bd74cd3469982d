package session

import "sync"

// Pool recycles Data values across connections instead of allocating a
// fresh one per connection, avoiding the allocator pressure of
// one-object-per-connection churn under load.
type Pool struct {
	maxBodyLength uint64
	pool          sync.Pool
}

// NewPool returns a Pool whose sessions cap inbound bodies at
// maxBodyLength (see Data.SetContentLength).
func NewPool(maxBodyLength uint64) *Pool {
	p := &Pool{maxBodyLength: maxBodyLength}
	p.pool.New = func() any {
		return New(maxBodyLength)
	}
	return p
}

// Acquire returns a Data ready for a new connection in the given role.
// Freshly allocated sessions start server-role (status == Request); a
// reused one is reset into the requested role via Reuse.
func (p *Pool) Acquire(serverRole bool) *Data {
	d := p.pool.Get().(*Data)
	if !d.Free() {
		// fresh out of pool.New: already in the right shape unless the
		// caller wants client role.
		if !serverRole {
			d.status = StatusLine
		}
		return d
	}

	d.Reuse(serverRole)
	return d
}

// Release returns d to the pool. The caller must only do this after
// flow.Flow.Recycle has run (d.Free() == true); Release panics otherwise,
// since putting a live session back into circulation would let two
// connections share its buffers.
func (p *Pool) Release(d *Data) {
	if !d.Free() {
		panic("session: Release called on a session that was never recycled")
	}

	p.pool.Put(d)
}
