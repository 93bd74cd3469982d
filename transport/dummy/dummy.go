// Package dummy provides an in-memory transport.Transport fake for driving
// flow.Flow in tests without a real socket: it feeds a fixed byte stream to
// the reader and journals everything written.
package dummy

import (
	"bytes"
	"io"

	"github.com/halcyon-http/httpflow/transport"
)

var _ transport.Transport = (*Transport)(nil)

// Transport is a universal test double: it is fed a byte stream up front
// (Feed), serves it out through ReadLine/ReadFull exactly like a real
// transport would, and journals everything written so tests can assert on
// the exact reply bytes.
type Transport struct {
	in      []byte
	written bytes.Buffer

	closed, shutdown bool
	closeCount       int
	shutdownCount    int

	supportsShutdown bool
}

// New returns a Transport that will serve data as the inbound byte stream.
func New(data []byte) *Transport {
	return &Transport{in: data, supportsShutdown: true}
}

// Feed appends more bytes to the inbound stream, for tests simulating
// fragmented reads arriving across several ReadLine/ReadFull calls.
func (t *Transport) Feed(data []byte) {
	t.in = append(t.in, data...)
}

// WithoutShutdown makes SupportsShutdown report false, for exercising the
// fd-like code paths through the same fake.
func (t *Transport) WithoutShutdown() *Transport {
	t.supportsShutdown = false
	return t
}

func (t *Transport) SupportsShutdown() bool { return t.supportsShutdown }

func (t *Transport) ReadLine(maxLen int) ([]byte, error) {
	idx := bytes.IndexByte(t.in, '\n')
	if idx < 0 {
		if len(t.in) >= maxLen {
			return nil, transport.ErrLineTooLong
		}

		return nil, io.EOF
	}

	if idx > maxLen {
		return nil, transport.ErrLineTooLong
	}

	line := t.in[:idx]
	t.in = t.in[idx+1:]

	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}

	return line, nil
}

func (t *Transport) ReadFull(n int) ([]byte, error) {
	if len(t.in) < n {
		return nil, io.EOF
	}

	out := t.in[:n]
	t.in = t.in[n:]
	return out, nil
}

func (t *Transport) Write(p []byte) error {
	t.written.Write(p)
	return nil
}

// Written returns everything written so far, across all calls.
func (t *Transport) Written() []byte {
	return t.written.Bytes()
}

func (t *Transport) Shutdown() error {
	t.shutdown = true
	t.shutdownCount++
	return nil
}

func (t *Transport) Close() error {
	t.closed = true
	t.closeCount++
	return nil
}

// CloseCount and ShutdownCount let tests assert idempotency: Flow.Recycle
// must never close or shut down the same transport twice.
func (t *Transport) CloseCount() int    { return t.closeCount }
func (t *Transport) ShutdownCount() int { return t.shutdownCount }
