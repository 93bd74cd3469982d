// Package echoserver is a minimal server-role processor.Processor: it
// dispatches by method and exact resource path to a handler map, answering
// 404/405 itself when nothing matches. It exists for the test suite, not
// as a general-purpose router.
package echoserver

import (
	"github.com/halcyon-http/httpflow/headers"
	"github.com/halcyon-http/httpflow/reply"
	"github.com/halcyon-http/httpflow/session"
	"github.com/halcyon-http/httpflow/status"
)

// Handler answers one request. It must call s.Reply exactly once.
type Handler func(s *session.Data)

// route is one (method, resource) -> Handler entry.
type route struct {
	method, resource string
	handler          Handler
}

// Server is a handler table keyed by (method, resource).
type Server struct {
	routes    []route
	keepAlive bool
}

// New returns an empty Server. keepAlive controls what AfterProcessing
// returns once a reply has gone out: true re-arms for another request on
// the same connection, false closes after the current reply.
func New(keepAlive bool) *Server {
	return &Server{keepAlive: keepAlive}
}

// Route registers handler for method and an exact resource path.
func (s *Server) Route(method, resource string, handler Handler) *Server {
	s.routes = append(s.routes, route{method: method, resource: resource, handler: handler})
	return s
}

func (s *Server) match(method, resource string) (Handler, []string, bool) {
	var allowed []string
	for _, r := range s.routes {
		if r.resource != resource {
			continue
		}
		allowed = append(allowed, r.method)
		if r.method == method {
			return r.handler, allowed, true
		}
	}
	return nil, allowed, false
}

func (s *Server) Start(*session.Data) {}

// AfterHeaders always expects a body (Content), deferring the
// Content-Length/chunked decisions entirely to flow.Flow; a resource
// needing no body at all would return session.Processing here instead.
func (s *Server) AfterHeaders(sess *session.Data) session.Status {
	return session.Content
}

func (s *Server) Handle(sess *session.Data) {
	req := sess.InboundRequest()

	handler, allowed, ok := s.match(req.Method, req.Resource)
	if !ok {
		if session.Trigger405(allowed) {
			reply.MethodNotAllowed(sess, joinMethods(allowed))
		} else {
			reply.NotFound(sess)
		}
		return
	}

	handler(sess)
}

func (s *Server) AfterProcessing(sess *session.Data) session.Status {
	if !s.keepAlive || sess.CloseAfterSend() {
		return session.Shutdown
	}
	return session.Request
}

func (s *Server) Recycle(*session.Data) {}

func joinMethods(methods []string) string {
	out := ""
	for i, m := range methods {
		if i > 0 {
			out += ", "
		}
		out += m
	}
	return out
}

// ReplyText is a convenience Handler body for simple text resources.
func ReplyText(code status.Code, body string) Handler {
	return func(s *session.Data) {
		s.Reply(code, []byte(body), headers.New().Add("Content-Type", "text/plain; charset=utf-8"))
	}
}
