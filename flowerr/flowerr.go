// Package flowerr holds the sentinel errors flow.Flow uses internally to
// classify why a session is being recycled, so the recycle log line can
// say something more useful than "recycled" whether the cause was a clean
// processor-decided shutdown or an actual parse/transport failure.
package flowerr

import "errors"

var (
	// ErrParse covers a malformed request/status line or header line.
	ErrParse = errors.New("malformed HTTP message")

	// ErrUnsupportedVersion covers a request/status line declaring
	// major >= 2.
	ErrUnsupportedVersion = errors.New("unsupported HTTP major version")

	// ErrTransport covers a read or write failure reported by the
	// underlying transport.Transport.
	ErrTransport = errors.New("transport error")

	// ErrEntityTooLarge covers a Content-Length exceeding the configured
	// cap.
	ErrEntityTooLarge = errors.New("request entity too large")

	// ErrChunkedUnsupported covers an inbound Transfer-Encoding header;
	// chunked bodies are an explicit non-goal.
	ErrChunkedUnsupported = errors.New("chunked transfer encoding is not supported")

	// ErrShutdown marks a Recycle that followed a clean, processor-decided
	// shutdown rather than a parse or transport failure.
	ErrShutdown = errors.New("clean shutdown")
)
