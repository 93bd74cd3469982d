// Package processor defines the abstract collaborator flow.Flow drives at
// each transition point in a connection's lifetime: five hooks covering
// startup, header completion, message handling, post-processing, and
// teardown, general enough to back either a server-role or a client-role
// Processor.
package processor

import "github.com/halcyon-http/httpflow/session"

// Processor is the pluggable collaborator implementing server-routing or
// client-request logic. All five hooks run on the same goroutine as the
// flow.Flow that calls them; a Processor must never retain session.Data
// across connections without going through Recycle first.
type Processor interface {
	// Start is called once when the connection flow begins; it may seed
	// outbound headers or, for a client-role Processor, queue the
	// initial request.
	Start(s *session.Data)

	// AfterHeaders is called once the inbound header block is fully
	// parsed. It returns the next session.Status: typically
	// session.Content if a body is expected, session.Processing if not,
	// or session.Error to abort (having already queued an error reply).
	AfterHeaders(s *session.Data) session.Status

	// Handle is called once a complete inbound message is available. A
	// server-role Processor must call s.Reply at least once; a
	// client-role Processor consumes the response instead.
	Handle(s *session.Data)

	// AfterProcessing is called once Handle has run and any reply it
	// queued has been written (straight after Handle if it queued
	// nothing), and after any other successful write that completes while
	// the session is still in session.Processing; it is not called after
	// writes in other states. It returns session.Request/session.StatusLine
	// to keep the connection going for another message, or
	// session.Shutdown to close it.
	AfterProcessing(s *session.Data) session.Status

	// Recycle is called from flow.Flow.Recycle; the Processor must
	// release any per-session resources it holds (e.g. a routing
	// context), but must not touch the transport.
	Recycle(s *session.Data)
}
