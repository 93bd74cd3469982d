// Package session holds the transport-agnostic, I/O-free HTTP session
// state: status, header maps, body buffer, outbound queue and the pure
// helpers flow.Flow drives to parse and reply. Fields stay private behind
// accessor methods so flow.Flow and a Processor can only reach state
// through the operations this package defines.
package session

import (
	"strconv"

	"github.com/dchest/uniuri"
	"github.com/halcyon-http/httpflow/headers"
	"github.com/halcyon-http/httpflow/negotiate"
	"github.com/halcyon-http/httpflow/proto"
	"github.com/halcyon-http/httpflow/status"
)

// defaultClientHeaders are merged into every outbound request built by
// Request, unless the caller already set them.
var defaultClientHeaders = map[string]string{
	"User-Agent": "httpflow/1.0",
}

// nonTriggering405Methods are methods whose presence alone never justifies
// answering 405 instead of 404.
var nonTriggering405Methods = map[string]bool{
	"OPTIONS": true,
	"TRACE":   true,
}

// Data is one connection's worth of HTTP session state. It owns no I/O
// handles; flow.Flow mutates it and reads it back between suspension
// points, and a Processor mutates it from inside its hooks.
type Data struct {
	id string

	status Status

	inboundRequest RequestLine
	inboundStatus  StatusLine

	inbound  *headers.Map
	outbound *headers.Map

	negotiated *headers.Map

	content       []byte
	contentLength uint64
	maxBodyLength uint64

	outboundQueue  [][]byte
	writePending   bool
	closeAfterSend bool
	free           bool
	isHEAD         bool

	requests uint64
	replies  uint64
	errors   uint64

	// pending holds the bytes most recently handed to the session by its
	// flow.Flow after a read, context-sensitively consumed by Buffer. The
	// transport already returns delimited chunks (a full line, or exactly
	// the requested number of body bytes), so there's nothing left to
	// buffer beyond "the last thing read".
	pending []byte
}

// New returns a fresh, non-free server-role session (status == Request).
func New(maxBodyLength uint64) *Data {
	return &Data{
		id:            uniuri.NewLen(12),
		status:        Request,
		inbound:       headers.NewPrealloc(8),
		outbound:      headers.NewPrealloc(8),
		negotiated:    headers.New(),
		maxBodyLength: maxBodyLength,
	}
}

// NewClient returns a fresh, non-free client-role session (status ==
// StatusLine).
func NewClient(maxBodyLength uint64) *Data {
	d := New(maxBodyLength)
	d.status = StatusLine
	return d
}

// ID is an opaque per-session correlation token, generated once, used only
// for logging.
func (d *Data) ID() string { return d.id }

func (d *Data) Status() Status     { return d.status }
func (d *Data) SetStatus(s Status) { d.status = s }

func (d *Data) InboundRequest() RequestLine     { return d.inboundRequest }
func (d *Data) SetInboundRequest(r RequestLine) { d.inboundRequest = r; d.isHEAD = r.Method == "HEAD" }
func (d *Data) InboundStatus() StatusLine       { return d.inboundStatus }
func (d *Data) SetInboundStatus(s StatusLine)   { d.inboundStatus = s }

func (d *Data) Inbound() *headers.Map    { return d.inbound }
func (d *Data) Outbound() *headers.Map   { return d.outbound }
func (d *Data) Negotiated() *headers.Map { return d.negotiated }

func (d *Data) Content() []byte { return d.content }

func (d *Data) ContentLength() uint64 { return d.contentLength }

// SetContentLength records the declared Content-Length. It returns false
// if length exceeds the configured cap, in which case the caller (flow.Flow)
// must transition to Error and reply 413 rather than read the body.
func (d *Data) SetContentLength(length uint64) bool {
	if d.maxBodyLength > 0 && length > d.maxBodyLength {
		return false
	}

	d.contentLength = length
	return true
}

// RemainingBytes is contentLength - len(content).
func (d *Data) RemainingBytes() uint64 {
	return d.contentLength - uint64(len(d.content))
}

// SetPending records the bytes flow.Flow just read, for the next Buffer call.
func (d *Data) SetPending(b []byte) { d.pending = b }

// Buffer extracts partial data from the session, context-sensitively on the
// current status: the whole of `pending` while parsing the request/status
// line or a header line, or up to RemainingBytes() of it while reading
// content.
func (d *Data) Buffer() []byte {
	switch d.status {
	case Request, StatusLine, Header:
		return d.pending
	case Content:
		remaining := d.RemainingBytes()
		if uint64(len(d.pending)) > remaining {
			return d.pending[:remaining]
		}
		return d.pending
	default:
		return nil
	}
}

// AppendContent appends b to the accumulated body.
func (d *Data) AppendContent(b []byte) {
	d.content = append(d.content, b...)
}

// ResetContent clears the accumulated body bytes, called once headers are
// fully parsed so the upcoming Content phase starts from an empty buffer.
// It must not touch contentLength: that was just set from the
// Content-Length header (if any) and is exactly what the Content phase's
// RemainingBytes calculation needs going forward.
func (d *Data) ResetContent() {
	d.content = d.content[:0]
}

// ResetInbound clears the inbound header map, called when moving from
// Request/Status into Header.
func (d *Data) ResetInbound() {
	d.inbound.Reset()
}

// ResetForNextMessage clears the body and the declared content length,
// called when moving from Request/Status into Header for a new message on
// a kept-alive connection — without this, a message with no Content-Length
// header would otherwise inherit the previous message's body size.
func (d *Data) ResetForNextMessage() {
	d.content = d.content[:0]
	d.contentLength = 0
}

// GenerateReply assembles a complete HTTP/1.1 response. See spec: body is
// omitted for informational statuses or HEAD requests; Content-Length is
// set whenever the status isn't informational, including on HEAD (without
// a body); Connection: close is set for status >= 400; header precedence is
// computed, then extra, then outbound.
func (d *Data) GenerateReply(code status.Code, body []byte, extra *headers.Map) []byte {
	allowBody := !code.IsInformational() && !d.isHEAD
	includeLength := !code.IsInformational()

	head := headers.New()
	if includeLength {
		head.Add("Content-Length", strconv.Itoa(len(body)))
	}
	if code.IsError() {
		head.Add("Connection", "close")
	}

	head.InsertUnlessPresent(extra)
	head.InsertUnlessPresent(d.outbound)

	reply := "HTTP/1.1 " + strconv.Itoa(int(code)) + " " + code.Reason() + "\r\n" +
		head.String() + "\r\n"

	out := []byte(reply)
	if allowBody {
		out = append(out, body...)
	}

	return out
}

// Reply queues a response for sending. A status >= 400 latches
// closeAfterSend.
func (d *Data) Reply(code status.Code, body []byte, extra *headers.Map) {
	d.outboundQueue = append(d.outboundQueue, d.GenerateReply(code, body, extra))

	if code.IsError() {
		d.closeAfterSend = true
	}

	d.replies++
}

// Request queues an outbound request (client role). The request line is
// always serialized as HTTP/1.1, same as GenerateReply fixes replies to
// HTTP/1.1 — there's no inbound request line to echo a version from on a
// client-role session. defaultClientHeaders are merged in unless the
// caller already set them.
func (d *Data) Request(method, resource string, header *headers.Map, body []byte) {
	head := headers.New()
	head.InsertUnlessPresent(header)
	head.InsertUnlessPresent(headers.New().InsertMap(defaultClientHeaders))

	line := RequestLine{Method: method, Resource: resource, Version: proto.HTTP11}
	msg := line.Assemble() + head.String() + "\r\n" + string(body)

	d.outboundQueue = append(d.outboundQueue, []byte(msg))
	d.isHEAD = method == "HEAD"
	d.requests++
}

// Negotiate performs content negotiation for each input header named in
// negotiations, recording the outcome into Negotiated(), appending the
// input header name to the outbound Vary, and — if the negotiation has an
// outbound twin — writing the chosen value to Outbound(). Returns false if
// any negotiation failed to produce a value.
func (d *Data) Negotiate(negotiations map[string]negotiate.Spec) bool {
	d.negotiated = headers.New()
	ok := true

	for headerName, spec := range negotiations {
		clientValue := d.inbound.Value(headerName)

		value, negotiated := negotiate.Negotiate(clientValue, spec)
		ok = ok && negotiated

		d.outbound.Add("Vary", headerName)
		d.negotiated.Add(headerName, value)

		if spec.OutboundHeader != "" {
			d.outbound.Set(spec.OutboundHeader, value)
		}
	}

	return ok
}

// Trigger405 reports whether allowedMethods justifies a 405 (as opposed to
// a plain 404): true iff it contains any method outside the "ignored" set
// of OPTIONS/TRACE.
func Trigger405(allowedMethods []string) bool {
	for _, m := range allowedMethods {
		if !nonTriggering405Methods[m] {
			return true
		}
	}

	return false
}

// --- outbound queue / write-gate / lifecycle plumbing used by flow.Flow ---

func (d *Data) PopOutbound() ([]byte, bool) {
	if len(d.outboundQueue) == 0 {
		return nil, false
	}

	msg := d.outboundQueue[0]
	d.outboundQueue = d.outboundQueue[1:]
	return msg, true
}

func (d *Data) OutboundLen() int { return len(d.outboundQueue) }

func (d *Data) WritePending() bool     { return d.writePending }
func (d *Data) SetWritePending(v bool) { d.writePending = v }

func (d *Data) CloseAfterSend() bool     { return d.closeAfterSend }
func (d *Data) SetCloseAfterSend(v bool) { d.closeAfterSend = v }

func (d *Data) ClearOutboundQueue() { d.outboundQueue = nil }

func (d *Data) Free() bool { return d.free }

func (d *Data) IsHEAD() bool { return d.isHEAD }

func (d *Data) Requests() uint64 { return d.requests }
func (d *Data) Replies() uint64  { return d.replies }
func (d *Data) Errors() uint64   { return d.errors }
func (d *Data) IncrErrors()      { d.errors++ }

// BeginRecycle is step (2) of flow.Flow.Recycle: transition to Shutdown and
// drop anything still queued, before the transport itself is torn down.
func (d *Data) BeginRecycle() {
	d.status = Shutdown
	d.closeAfterSend = false
	d.outboundQueue = nil
	d.writePending = false
}

// FinishRecycle is steps (5)-(6) of flow.Flow.Recycle: drop the parse
// buffers and mark the session free for reuse, once the transport has
// been shut down and closed.
func (d *Data) FinishRecycle() {
	d.content = nil
	d.contentLength = 0
	d.inbound.Reset()
	d.outbound.Reset()
	d.pending = nil
	d.free = true
}

// Reuse prepares a freed session for a new connection in the given role,
// without touching the cumulative counters (requests/replies/errors stay
// monotonic across reuses, per spec).
func (d *Data) Reuse(serverRole bool) {
	d.id = uniuri.NewLen(12)
	if serverRole {
		d.status = Request
	} else {
		d.status = StatusLine
	}
	d.isHEAD = false
	d.free = false
}
