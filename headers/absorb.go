package headers

import "strings"

// Absorb consumes one unfolded header line (CRLF/LF already stripped by the
// caller) and reports whether the header block is complete. An empty line
// signals completion; any other line must contain a colon to be well
// formed.
func (m *Map) Absorb(line string) (complete bool, ok bool) {
	if len(line) == 0 {
		return true, true
	}

	name, value, found := strings.Cut(line, ":")
	if !found {
		return false, false
	}

	m.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	return false, true
}
