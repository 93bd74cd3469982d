// Package transport abstracts the byte-level connection flow.Flow drives:
// blocking reads and writes plus a capability trait for whether a graceful
// shutdown makes sense. Concrete variants cover a socket-like case
// (transport/tcp, shutdown supported) and a descriptor-like case
// (transport/fd, shutdown a no-op).
package transport

import "errors"

// ErrLineTooLong is returned by ReadLine when no delimiter was found within
// maxLen bytes.
var ErrLineTooLong = errors.New("transport: line exceeds configured limit")

// Transport is one connection's full-duplex byte stream, along with the
// capability of knowing whether a graceful shutdown makes sense for it.
//
// Implementations decide at construction time whether their input and
// output sides are the same underlying handle (e.g. one net.Conn) or two
// distinct ones (e.g. stdin/stdout); either way, Shutdown and Close are
// idempotent and close each distinct handle at most once.
type Transport interface {
	// SupportsShutdown reports whether Shutdown does anything useful on
	// this transport. File-descriptor transports (stdio, pipes) report
	// false.
	SupportsShutdown() bool

	// ReadLine blocks until a '\n' byte has been read, or maxLen bytes
	// have accumulated without one, and returns the line without its
	// trailing "\r\n" or "\n".
	ReadLine(maxLen int) ([]byte, error)

	// ReadFull blocks until exactly n bytes have been read.
	ReadFull(n int) ([]byte, error)

	// Write writes p in full.
	Write(p []byte) error

	// Shutdown initiates a graceful shutdown, if supported. Safe to call
	// more than once.
	Shutdown() error

	// Close releases the underlying handle(s). Safe to call more than
	// once.
	Close() error
}
