// Package status holds the HTTP status codes and reason phrases the flow
// core needs to assemble and recognise replies. Named status rather than
// http/status to keep the import path short across the module.
package status

// Code is a numeric HTTP status code.
type Code uint16

// Status codes actually produced or consumed by the flow core. The list
// isn't exhaustive of the IANA registry; it's the subset a Processor
// implementation can reasonably hand to session.Data.Reply.
const (
	Continue           Code = 100
	SwitchingProtocols Code = 101

	OK        Code = 200
	Created   Code = 201
	Accepted  Code = 202
	NoContent Code = 204

	MovedPermanently Code = 301
	Found            Code = 302
	SeeOther         Code = 303
	NotModified      Code = 304

	BadRequest            Code = 400
	Unauthorized          Code = 401
	Forbidden             Code = 403
	NotFound              Code = 404
	MethodNotAllowed      Code = 405
	RequestTimeout        Code = 408
	LengthRequired        Code = 411
	RequestEntityTooLarge Code = 413
	RequestURITooLong     Code = 414
	UnsupportedMediaType  Code = 415

	InternalServerError     Code = 500
	NotImplemented          Code = 501
	BadGateway              Code = 502
	ServiceUnavailable      Code = 503
	HTTPVersionNotSupported Code = 505
)

var reasons = map[Code]string{
	Continue:           "Continue",
	SwitchingProtocols: "Switching Protocols",

	OK:        "OK",
	Created:   "Created",
	Accepted:  "Accepted",
	NoContent: "No Content",

	MovedPermanently: "Moved Permanently",
	Found:            "Found",
	SeeOther:         "See Other",
	NotModified:      "Not Modified",

	BadRequest:            "Bad Request",
	Unauthorized:          "Unauthorized",
	Forbidden:             "Forbidden",
	NotFound:              "Not Found",
	MethodNotAllowed:      "Method Not Allowed",
	RequestTimeout:        "Request Timeout",
	LengthRequired:        "Length Required",
	RequestEntityTooLarge: "Request Entity Too Large",
	RequestURITooLong:     "Request URI Too Long",
	UnsupportedMediaType:  "Unsupported Media Type",

	InternalServerError:     "Internal Server Error",
	NotImplemented:          "Not Implemented",
	BadGateway:              "Bad Gateway",
	ServiceUnavailable:      "Service Unavailable",
	HTTPVersionNotSupported: "HTTP Version Not Supported",
}

// Reason returns the canonical reason phrase for code, or "Unknown Status
// Code" if it isn't one of the ones above.
func (c Code) Reason() string {
	if reason, ok := reasons[c]; ok {
		return reason
	}

	return "Unknown Status Code"
}

// IsInformational reports whether the code is in the 1xx range, in which
// case a reply carries no body.
func (c Code) IsInformational() bool {
	return c >= 100 && c < 200
}

// IsError reports whether the code is >= 400, which latches
// session.Data.closeAfterSend.
func (c Code) IsError() bool {
	return c >= 400
}
