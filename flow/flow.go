// Package flow implements the per-session I/O state machine that drives an
// HTTP connection from its first byte to its last. A Flow owns a
// transport.Transport and a processor.Processor reference, and drives
// session.Data through one full message exchange at a time, one goroutine
// per connection, blocking on reads and writes rather than chaining
// callbacks.
package flow

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/halcyon-http/httpflow/config"
	"github.com/halcyon-http/httpflow/flowerr"
	"github.com/halcyon-http/httpflow/processor"
	"github.com/halcyon-http/httpflow/proto"
	"github.com/halcyon-http/httpflow/reply"
	"github.com/halcyon-http/httpflow/session"
	"github.com/halcyon-http/httpflow/status"
	"github.com/halcyon-http/httpflow/transport"
)

// limVersion is the first rejected HTTP major version: anything >= 2.0 is
// out of scope for this connection-flow core.
var limVersion = proto.Version{Major: 2, Minor: 0}

// Flow is the I/O state machine for one session. A Flow value is used for
// exactly one connection's lifetime and must not be reused after Recycle
// runs; build a new one (over the same, now-free session.Data) for the
// next connection.
type Flow struct {
	processor processor.Processor
	transport transport.Transport
	session   *session.Data
	cfg       *config.Config
	logger    *log.Logger

	// serverRole records which end of the connection this flow represents,
	// for the recycled-session log line; it is taken from the session's
	// Status() at New. The session's own role is set by whoever calls
	// Reuse.
	serverRole bool

	// headerLineCount bounds config.Headers.MaxCount; reset whenever the
	// session moves from Request/Status into Header.
	headerLineCount int

	// lastErr classifies why the session is heading into session.Error, for
	// Recycle's log line. Left nil for a clean close.
	lastErr error
}

// New builds a Flow over sess. The flow is server-role if sess is awaiting
// session.Request, and client-role otherwise (e.g. a session.NewClient
// session awaiting session.StatusLine).
func New(proc processor.Processor, trans transport.Transport, sess *session.Data, cfg *config.Config, logger *log.Logger) *Flow {
	return &Flow{
		processor:  proc,
		transport:  trans,
		session:    sess,
		cfg:        cfg,
		logger:     logger,
		serverRole: sess.Status() == session.Request,
	}
}

func (f *Flow) logf(format string, args ...any) {
	if f.logger != nil {
		f.logger.Printf("[%s] "+format, append([]any{f.session.ID()}, args...)...)
	}
}

// Start merges the configured default outbound headers in, calls
// Processor.Start, and then does what handleStart always does: begin
// reading, or recycle immediately if the processor already decided to shut
// down.
func (f *Flow) Start() {
	f.session.Outbound().InsertMap(f.cfg.Headers.Default)
	f.processor.Start(f.session)
	f.handleStart()
}

// Send sends the next message in the outbound queue, if there is one and
// no message is currently in flight. It detaches the message from the
// queue before issuing the write, so a reentrant Send (e.g. called again
// from within handleWrite) observes the new head.
func (f *Flow) Send() {
	if f.session.Free() || f.session.WritePending() {
		return
	}

	msg, ok := f.session.PopOutbound()
	if !ok {
		if f.session.CloseAfterSend() {
			f.Recycle()
		}
		return
	}

	f.session.SetWritePending(true)
	err := f.transport.Write(msg)
	f.handleWrite(err)
}

// ReadLine issues a read for one full line, bounded by the size limit
// appropriate to the current status.
func (f *Flow) ReadLine() {
	limit := f.cfg.URI.LineSize
	if f.session.Status() == session.Header {
		limit = f.cfg.Headers.LineSize
	}

	line, err := f.transport.ReadLine(limit)
	f.session.SetPending(line)
	f.handleRead(err)
}

// ReadRemainingContent issues a read for whatever is left of the request
// body.
func (f *Flow) ReadRemainingContent() {
	n := int(f.session.RemainingBytes())

	data, err := f.transport.ReadFull(n)
	f.session.SetPending(data)
	f.handleRead(err)
}

// Recycle makes the session reusable, idempotently: processor hook, state
// reset, transport teardown with error counting, buffer drain, then mark
// free.
func (f *Flow) Recycle() {
	if f.session.Free() {
		return
	}

	if f.lastErr == nil && f.session.Status() == session.Shutdown {
		f.lastErr = flowerr.ErrShutdown
	}

	f.processor.Recycle(f.session)

	f.session.BeginRecycle()

	if f.transport.SupportsShutdown() {
		if err := f.transport.Shutdown(); err != nil {
			f.session.IncrErrors()
		}
	}

	if err := f.transport.Close(); err != nil {
		f.session.IncrErrors()
	}

	f.session.FinishRecycle()

	role := "client"
	if f.serverRole {
		role = "server"
	}

	if f.lastErr != nil {
		f.logf("recycled role=%s (requests=%d replies=%d errors=%d) cause=%v",
			role, f.session.Requests(), f.session.Replies(), f.session.Errors(), f.lastErr)
		f.lastErr = nil
		return
	}

	f.logf("recycled role=%s (requests=%d replies=%d errors=%d)",
		role, f.session.Requests(), f.session.Replies(), f.session.Errors())
}

// handleStart decides what to do after an initial setup: this is what
// Start does after the processor hook, and also what has to happen again
// after fully processing one message while keeping the connection open.
//
// Anything already queued (a reply just built by Handle, or the initial
// request a client-role Processor.Start queued) must be written before the
// next read is issued — on this blocking, one-goroutine-per-session model a
// read and a write can't run concurrently, so reading ahead of an unsent
// reply would stall it behind the next message. handleWrite's own tail
// picks up the next ReadLine once the queue actually drains.
func (f *Flow) handleStart() {
	// Anything already queued must go out first — including a reply
	// queued right before the processor decided to shut down — or
	// Recycle would drop it on the floor via BeginRecycle's queue clear.
	// handleWrite's own tail notices Shutdown once the queue drains and
	// recycles from there.
	if f.session.OutboundLen() > 0 || f.session.WritePending() {
		f.Send()
		return
	}

	if f.session.Status() == session.Shutdown {
		f.Recycle()
		return
	}

	switch f.session.Status() {
	case session.Request, session.StatusLine:
		f.ReadLine()
	}
}

// handleRead is the parse driver: called after every ReadLine/
// ReadRemainingContent completes.
func (f *Flow) handleRead(err error) {
	if f.session.Status() == session.Shutdown {
		// late completion after Recycle; nothing left to do with it.
		return
	}

	// entryStatus is what this read was FOR — dispatch on it, not on
	// whatever err turns status into, or a read error during Header
	// would never reach handleHeaderLine (it needs to see err itself to
	// tell a too-long line apart from a plain disconnect).
	entryStatus := f.session.Status()
	wasRequest := entryStatus == session.Request
	wasStart := wasRequest || entryStatus == session.StatusLine
	var version proto.Version

	switch entryStatus {
	case session.Request:
		if err != nil {
			f.lastErr = flowerr.ErrTransport
			f.session.SetStatus(session.Error)
		} else if line, ok := session.ParseRequestLine(string(f.session.Buffer())); ok {
			f.session.SetInboundRequest(line)
			f.session.SetStatus(session.Header)
			version = line.Version
		} else {
			f.lastErr = flowerr.ErrParse
			f.session.SetStatus(session.Error)
		}

	case session.StatusLine:
		if err != nil {
			f.lastErr = flowerr.ErrTransport
			f.session.SetStatus(session.Error)
		} else if line, ok := session.ParseStatusLine(string(f.session.Buffer())); ok {
			f.session.SetInboundStatus(line)
			f.session.SetStatus(session.Header)
			version = line.Version
		} else {
			f.lastErr = flowerr.ErrParse
			f.session.SetStatus(session.Error)
		}

	case session.Header:
		f.handleHeaderLine(err)

	case session.Content:
		if err != nil {
			f.lastErr = flowerr.ErrTransport
			f.session.SetStatus(session.Error)
		}
	}

	if wasStart && f.session.Status() != session.Error && version.GTE(limVersion) {
		f.lastErr = flowerr.ErrUnsupportedVersion
		f.session.SetStatus(session.Error)
	}

	if wasStart && f.session.Status() == session.Header {
		f.session.ResetInbound()
		f.session.ResetForNextMessage()
		f.headerLineCount = 0
	} else if wasRequest && f.session.Status() == session.Error {
		if version.GTE(limVersion) {
			reply.VersionNotSupported(f.session)
		} else {
			reply.BadRequest(f.session, status.ErrMalformedStartLine)
		}
		f.session.SetStatus(session.Processing)
		f.Send()
	}

	switch f.session.Status() {
	case session.Header:
		f.ReadLine()
	case session.Content:
		f.session.AppendContent(f.session.Buffer())
		if f.session.RemainingBytes() == 0 {
			f.session.SetStatus(session.Processing)
			f.callHandle()
			if f.session.OutboundLen() > 0 {
				// AfterProcessing runs from handleWrite once the reply
				// Handle just queued has actually gone out, not here —
				// see the AfterProcessing doc on processor.Processor.
				f.Send()
			} else {
				// A client-role Handle consumes the response without
				// queuing anything for handleWrite to notice, so drive
				// AfterProcessing from here instead.
				f.finishProcessing()
			}
		} else {
			f.ReadRemainingContent()
		}
	}

	if f.session.Status() == session.Error {
		f.Recycle()
	}
}

// callHandle runs Processor.Handle, recovering a panic into a queued 500
// rather than taking the whole goroutine down with it: one misbehaving
// handler shouldn't be able to crash the listener.
func (f *Flow) callHandle() {
	defer func() {
		if r := recover(); r != nil {
			f.lastErr = fmt.Errorf("handler panic: %v", r)
			reply.InternalServerError(f.session)
		}
	}()

	f.processor.Handle(f.session)
}

// handleHeaderLine absorbs one header line (or the terminating blank line)
// and, on the line that completes the block, resolves the framing checks
// (chunked rejection, body-size cap) before calling Processor.AfterHeaders.
// err is the error (if any) the line read itself completed with — a
// too-long header line is reported as a parse failure; anything else (a
// transport error) just recycles without a reply, the same way a
// disconnect mid-status line does. (A failed request-line read is
// different: handleRead answers it with a 400.)
func (f *Flow) handleHeaderLine(err error) {
	if err != nil {
		if errors.Is(err, transport.ErrLineTooLong) {
			f.lastErr = flowerr.ErrParse
			reply.BadRequest(f.session, status.ErrLineTooLong)
			f.session.SetStatus(session.Processing)
			f.Send()
			return
		}

		// any other read error (the peer disconnected) just recycles
		// silently once handleRead sees Error below.
		f.lastErr = flowerr.ErrTransport
		f.session.SetStatus(session.Error)
		return
	}

	// the terminating blank line is not a header line and is not counted.
	if len(f.session.Buffer()) > 0 {
		f.headerLineCount++
	}
	if f.cfg.Headers.MaxCount > 0 && f.headerLineCount > f.cfg.Headers.MaxCount {
		f.lastErr = flowerr.ErrParse
		reply.BadRequest(f.session, status.ErrBadRequest)
		f.session.SetStatus(session.Processing)
		f.Send()
		return
	}

	complete, ok := f.session.Inbound().Absorb(string(f.session.Buffer()))
	if !ok {
		f.lastErr = flowerr.ErrParse
		reply.BadRequest(f.session, status.ErrMalformedHeader)
		f.session.SetStatus(session.Processing)
		f.Send()
		return
	}

	if !complete {
		return
	}

	if f.session.Inbound().Has("Transfer-Encoding") {
		f.lastErr = flowerr.ErrChunkedUnsupported
		reply.NotImplemented(f.session)
		f.session.SetStatus(session.Processing)
		f.Send()
		return
	}

	if raw, ok := f.session.Inbound().Get("Content-Length"); ok {
		length, parseErr := strconv.ParseUint(raw, 10, 64)
		if parseErr != nil {
			f.lastErr = flowerr.ErrParse
			reply.BadRequest(f.session, status.ErrMalformedHeader)
			f.session.SetStatus(session.Processing)
			f.Send()
			return
		}

		if !f.session.SetContentLength(length) {
			f.lastErr = flowerr.ErrEntityTooLarge
			reply.EntityTooLarge(f.session)
			f.session.SetStatus(session.Processing)
			f.Send()
			return
		}
	}

	next := f.processor.AfterHeaders(f.session)
	f.session.SetStatus(next)
	f.session.ResetContent()

	// A bodyless message (AfterHeaders decided no content follows) never
	// passes through handleRead's Content-complete branch, so Handle has
	// to be invoked here instead.
	if next == session.Processing {
		f.callHandle()
		if f.session.OutboundLen() == 0 {
			f.finishProcessing()
			return
		}
	}

	f.Send()
}

// handleWrite is the write driver, called synchronously right after
// Send's transport.Write completes (see the package doc on why there is
// no separate asynchronous completion here).
func (f *Flow) handleWrite(err error) {
	f.session.SetWritePending(false)

	if err != nil {
		f.lastErr = flowerr.ErrTransport
		f.session.IncrErrors()
		f.Recycle()
		return
	}

	f.finishProcessing()
}

// finishProcessing drives AfterProcessing and whatever follows it: flush
// anything AfterProcessing or Handle queued, then either recycle or read the
// next message's first line. Called from handleWrite once a queued reply
// has actually gone out, and also directly from handleRead/handleHeaderLine
// when Handle never queued a reply for handleWrite to notice — a
// client-role Processor that consumes a response instead of replying to it.
func (f *Flow) finishProcessing() {
	if f.session.Status() == session.Processing {
		f.session.SetStatus(f.processor.AfterProcessing(f.session))
	}

	f.Send()

	if f.session.WritePending() || f.session.OutboundLen() > 0 {
		return
	}

	switch {
	case f.session.Status() == session.Shutdown, f.session.CloseAfterSend():
		f.Recycle()
	case f.session.Status() == session.Request, f.session.Status() == session.StatusLine:
		f.ReadLine()
	}
}
