// Package tcp implements transport.Transport over a net.Conn: the
// socket-like variant, shared by TCP and UNIX-domain sockets since both
// speak net.Conn, and by TLS-terminated connections since *tls.Conn
// satisfies net.Conn too.
package tcp

import (
	"bytes"
	"io"
	"net"
	"time"

	"github.com/halcyon-http/httpflow/transport"
)

var _ transport.Transport = (*Transport)(nil)

// halfCloser is implemented by *net.TCPConn and *net.UnixConn; asserting
// for it lets Shutdown do a real half-close where the OS supports one.
type halfCloser interface {
	CloseWrite() error
}

// Transport wraps a single net.Conn as both the input and the output side,
// which is always the aliased case in practice for TCP/UNIX sockets: there
// is exactly one handle, so "sameHandle" is trivially true and Close can
// never double-close.
type Transport struct {
	conn    net.Conn
	timeout time.Duration
	buf     []byte
	pending []byte
	closed  bool
}

// New wraps conn. readBufSize sizes the chunk Transport reads from the
// socket at a time; timeout, if positive, is applied as a read deadline
// before each underlying read.
func New(conn net.Conn, readBufSize int, timeout time.Duration) *Transport {
	return &Transport{
		conn:    conn,
		timeout: timeout,
		buf:     make([]byte, readBufSize),
	}
}

func (t *Transport) SupportsShutdown() bool { return true }

func (t *Transport) fill() error {
	if t.timeout > 0 {
		if err := t.conn.SetReadDeadline(time.Now().Add(t.timeout)); err != nil {
			return err
		}
	}

	n, err := t.conn.Read(t.buf)
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
			// Checked against idx, not len(pending): a line that
			// arrives in one read (delimiter included) must still
			// be capped, not just one that trickles in under maxLen
			// at a time.
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
	_, err := t.conn.Write(p)
	return err
}

func (t *Transport) Shutdown() error {
	if hc, ok := t.conn.(halfCloser); ok {
		return hc.CloseWrite()
	}

	return nil
}

func (t *Transport) Close() error {
	if t.closed {
		return nil
	}

	t.closed = true
	return t.conn.Close()
}

func trimCR(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		return line[:n-1]
	}

	return line
}
