// Package reply produces the canned error responses flow.Flow queues when
// it decides a connection can't continue on its own.
package reply

import (
	"github.com/halcyon-http/httpflow/headers"
	"github.com/halcyon-http/httpflow/session"
	"github.com/halcyon-http/httpflow/status"
)

// BadRequest queues a 400, with the body taken from cause so the line that
// actually triggered it (too-long, malformed start line, malformed header)
// shows up in what's sent and logged instead of a generic message.
func BadRequest(s *session.Data, cause status.HTTPError) {
	s.Reply(status.BadRequest, []byte(cause.Message), nil)
}

// VersionNotSupported queues a 505 for a request/status line declaring a
// major version >= 2.
func VersionNotSupported(s *session.Data) {
	s.Reply(status.HTTPVersionNotSupported, []byte(status.ErrHTTPVersionNotSupported.Message), nil)
}

// MethodNotAllowed queues a 405 with an Allow header listing the methods
// the resource actually supports.
func MethodNotAllowed(s *session.Data, allow string) {
	s.Reply(status.MethodNotAllowed, []byte(status.ErrMethodNotAllowed.Message),
		headers.New().Add("Allow", allow))
}

// NotFound queues a 404.
func NotFound(s *session.Data) {
	s.Reply(status.NotFound, []byte(status.ErrNotFound.Message), nil)
}

// EntityTooLarge queues a 413 for a Content-Length beyond the configured
// cap.
func EntityTooLarge(s *session.Data) {
	s.Reply(status.RequestEntityTooLarge, []byte(status.ErrRequestEntityTooLarge.Message), nil)
}

// NotImplemented queues a 501, used for the chunked Transfer-Encoding
// rejection (chunked bodies are an explicit non-goal).
func NotImplemented(s *session.Data) {
	s.Reply(status.NotImplemented, []byte(status.ErrNotImplemented.Message), nil)
}

// InternalServerError queues a 500, for a Processor.Handle that panics or
// otherwise can't produce a proper reply; flow.Flow recovers such panics
// and falls back to this.
func InternalServerError(s *session.Data) {
	s.Reply(status.InternalServerError, []byte(status.ErrInternalServerError.Message), nil)
}
