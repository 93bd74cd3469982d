// Package fd implements transport.Transport over plain io.Reader/io.Writer
// descriptors that don't support a network-style shutdown: stdio, pipes,
// and similar. Shutdown is always a no-op here, since shutting down a
// file descriptor isn't a meaningful operation.
package fd

import (
	"bytes"
	"io"

	"github.com/halcyon-http/httpflow/transport"
)

var _ transport.Transport = (*Transport)(nil)

// Transport wraps a read side and a write side that may or may not be the
// same underlying handle; the aliasing decision is made once here, at
// construction, rather than by comparing pointers at teardown time.
type Transport struct {
	r io.ReadCloser
	w io.WriteCloser

	sameHandle bool
	buf        []byte
	pending    []byte

	rClosed, wClosed bool
}

// New wraps rw as both the read and write side (e.g. a single pipe or
// Unix socket used over a descriptor-oriented transport). The caller is
// explicitly asserting that there is one handle here, so Close closes it
// exactly once no matter how many of the two roles ask for it.
func New(rw io.ReadWriteCloser, readBufSize int) *Transport {
	return &Transport{
		r:          rw,
		w:          rw,
		sameHandle: true,
		buf:        make([]byte, readBufSize),
	}
}

// NewSplit wraps distinct read and write handles, e.g. stdin and stdout.
// sameHandle is recorded explicitly at the call site rather than inferred
// via runtime identity checks.
func NewSplit(r io.ReadCloser, w io.WriteCloser, readBufSize int) *Transport {
	return &Transport{
		r:          r,
		w:          w,
		sameHandle: false,
		buf:        make([]byte, readBufSize),
	}
}

func (t *Transport) SupportsShutdown() bool { return false }

func (t *Transport) fill() error {
	n, err := t.r.Read(t.buf)
	if n > 0 {
		t.pending = append(t.pending, t.buf[:n]...)
	}

	if n > 0 && err == io.EOF {
		return nil
	}

	return err
}

func (t *Transport) ReadLine(maxLen int) ([]byte, error) {
	for {
		if idx := bytes.IndexByte(t.pending, '\n'); idx >= 0 {
			if idx > maxLen {
				return nil, transport.ErrLineTooLong
			}

			line := t.pending[:idx]
			t.pending = t.pending[idx+1:]
			return trimCR(line), nil
		}

		if len(t.pending) >= maxLen {
			return nil, transport.ErrLineTooLong
		}

		if err := t.fill(); err != nil {
			return nil, err
		}
	}
}

func (t *Transport) ReadFull(n int) ([]byte, error) {
	for len(t.pending) < n {
		if err := t.fill(); err != nil {
			return nil, err
		}
	}

	out := t.pending[:n]
	t.pending = t.pending[n:]
	return out, nil
}

func (t *Transport) Write(p []byte) error {
	_, err := t.w.Write(p)
	return err
}

// Shutdown is a no-op: a file descriptor has no concept of a half-close in
// the way a socket does.
func (t *Transport) Shutdown() error { return nil }

func (t *Transport) Close() error {
	var err error

	if !t.rClosed {
		t.rClosed = true
		err = t.r.Close()
	}

	if t.sameHandle {
		t.wClosed = true
		return err
	}

	if !t.wClosed {
		t.wClosed = true
		if werr := t.w.Close(); werr != nil && err == nil {
			err = werr
		}
	}

	return err
}

func trimCR(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		return line[:n-1]
	}

	return line
}
