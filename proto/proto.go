// Package proto parses and renders the "HTTP/major.minor" protocol token
// shared by request lines and status lines. It only has to reason about
// the versions the flow core actually carries through: Parse accepts any
// single-digit major version, and flow.handleRead then rejects anything
// with a major version of 2 or higher.
package proto

import (
	"fmt"
)

// Version is a parsed "HTTP/major.minor" token.
type Version struct {
	Major, Minor uint8
}

// HTTP10 and HTTP11 are the only versions the flow core will carry all the
// way to Processing; anything with Major >= 2 is rejected in flow.handleRead.
var (
	HTTP10 = Version{1, 0}
	HTTP11 = Version{1, 1}
)

// String renders the version the way it appears on the wire, e.g. "HTTP/1.1".
func (v Version) String() string {
	return fmt.Sprintf("HTTP/%d.%d", v.Major, v.Minor)
}

// GTE reports whether v is greater than or equal to other, comparing major
// first and minor as a tie-breaker.
func (v Version) GTE(other Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}

	return v.Minor >= other.Minor
}

const prefix = "HTTP/"

// Parse reads a "HTTP/major.minor" token from raw. ok is false if raw isn't
// shaped like a protocol token at all (wrong length, missing prefix, or a
// non-digit where a digit is expected).
func Parse(raw string) (v Version, ok bool) {
	if len(raw) != len("HTTP/x.x") {
		return Version{}, false
	}

	if raw[:len(prefix)] != prefix {
		return Version{}, false
	}

	major, minor := raw[len(prefix)], raw[len(prefix)+2]
	if raw[len(prefix)+1] != '.' || !isDigit(major) || !isDigit(minor) {
		return Version{}, false
	}

	return Version{Major: major - '0', Minor: minor - '0'}, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
