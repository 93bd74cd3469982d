package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halcyon-http/httpflow/status"
)

func TestPool_AcquireFreshIsServerRole(t *testing.T) {
	p := NewPool(1024)
	d := p.Acquire(true)
	require.Equal(t, Request, d.Status())
}

func TestPool_AcquireFreshClientRole(t *testing.T) {
	p := NewPool(1024)
	d := p.Acquire(false)
	require.Equal(t, StatusLine, d.Status())
}

func TestPool_ReleaseThenAcquireReuses(t *testing.T) {
	p := NewPool(1024)
	d := p.Acquire(true)

	d.Reply(status.OK, nil, nil)
	d.BeginRecycle()
	d.FinishRecycle()
	require.True(t, d.Free())

	p.Release(d)

	reused := p.Acquire(true)
	require.Equal(t, Request, reused.Status())
	require.False(t, reused.Free())
}

func TestPool_ReleaseOfLiveSessionPanics(t *testing.T) {
	p := NewPool(1024)
	d := p.Acquire(true)

	require.Panics(t, func() {
		p.Release(d)
	})
}
