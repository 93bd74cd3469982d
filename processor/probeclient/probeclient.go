// Package probeclient is a minimal client-role processor.Processor: it
// issues exactly one request at Start and hands the parsed response to a
// callback, then shuts the connection down. It exists purely as a test
// fixture, standing in for a real client-role processor.
package probeclient

import (
	"github.com/halcyon-http/httpflow/headers"
	"github.com/halcyon-http/httpflow/session"
)

// Response is what Start's request got back.
type Response struct {
	Status  session.StatusLine
	Headers *headers.Map
	Body    []byte
}

// Client issues one fixed request and reports the response via Done.
type Client struct {
	Method, Resource string
	Header           *headers.Map
	Body             []byte

	// Done is called once, from Handle, with the full parsed response.
	Done func(Response)
}

func (c *Client) Start(s *session.Data) {
	s.Request(c.Method, c.Resource, c.Header, c.Body)
}

// AfterHeaders always reads whatever body the server declared, deferring
// the Content-Length bookkeeping to flow.Flow.
func (c *Client) AfterHeaders(s *session.Data) session.Status {
	return session.Content
}

func (c *Client) Handle(s *session.Data) {
	if c.Done != nil {
		c.Done(Response{
			Status:  s.InboundStatus(),
			Headers: s.Inbound(),
			Body:    append([]byte(nil), s.Content()...),
		})
	}
}

// AfterProcessing always closes: a probe is one request and done.
func (c *Client) AfterProcessing(s *session.Data) session.Status {
	return session.Shutdown
}

func (c *Client) Recycle(*session.Data) {}
