package session

import (
	"strings"

	"github.com/halcyon-http/httpflow/proto"
)

// RequestLine is the parsed first line of an inbound request:
// "METHOD SP resource SP HTTP/major.minor".
type RequestLine struct {
	Method, Resource string
	Version          proto.Version
}

// Valid reports whether the line parsed into something usable. A zero-value
// RequestLine is never valid, since Method is always non-empty on success.
func (r RequestLine) Valid() bool {
	return len(r.Method) > 0
}

// ParseRequestLine splits a raw request line (CRLF/LF already stripped) into
// its three tokens.
func ParseRequestLine(line string) (RequestLine, bool) {
	method, rest, ok := strings.Cut(line, " ")
	if !ok {
		return RequestLine{}, false
	}

	resource, versionToken, ok := strings.Cut(rest, " ")
	if !ok {
		return RequestLine{}, false
	}

	version, ok := proto.Parse(versionToken)
	if !ok {
		return RequestLine{}, false
	}

	if len(method) == 0 || len(resource) == 0 {
		return RequestLine{}, false
	}

	return RequestLine{Method: method, Resource: resource, Version: version}, true
}

// Assemble renders the request line back onto the wire, CRLF-terminated.
func (r RequestLine) Assemble() string {
	return r.Method + " " + r.Resource + " " + r.Version.String() + "\r\n"
}

// StatusLine is the parsed first line of an inbound reply:
// "HTTP/major.minor SP code SP reason".
type StatusLine struct {
	Version proto.Version
	Code    int
	Reason  string
}

func (s StatusLine) Valid() bool {
	return s.Code > 0
}

// ParseStatusLine splits a raw status line (CRLF/LF already stripped) into
// its three tokens.
func ParseStatusLine(line string) (StatusLine, bool) {
	versionToken, rest, ok := strings.Cut(line, " ")
	if !ok {
		return StatusLine{}, false
	}

	version, ok := proto.Parse(versionToken)
	if !ok {
		return StatusLine{}, false
	}

	codeToken, reason, ok := strings.Cut(rest, " ")
	if !ok {
		codeToken, reason = rest, ""
	}

	code := 0
	for _, c := range codeToken {
		if c < '0' || c > '9' {
			return StatusLine{}, false
		}
		code = code*10 + int(c-'0')
	}

	if code == 0 {
		return StatusLine{}, false
	}

	return StatusLine{Version: version, Code: code, Reason: reason}, true
}
