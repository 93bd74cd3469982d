// Package negotiate implements HTTP content negotiation: intersecting a
// client's weighted preference list (as sent in Accept, Accept-Charset,
// etc.) against the set of candidates a server actually offers, picking
// the highest-quality overlap.
package negotiate

import (
	"sort"
	"strconv"
	"strings"
)

// Spec describes what a server can offer for one negotiation dimension,
// e.g. the set of MIME types a handler can render a response as.
type Spec struct {
	// Candidates are the values the server supports, in preference
	// order (first is the default when the client sends no preference
	// at all).
	Candidates []string
	// OutboundHeader is the response header the negotiated value should
	// be written to, e.g. "Content-Type" for an "Accept" negotiation. May
	// be empty if the negotiated value has no outbound twin.
	OutboundHeader string
}

type weighted struct {
	value   string
	quality float64
}

// Negotiate picks the best candidate in spec.Candidates given the raw value
// of the client's preference header (e.g. the literal Accept: header
// value). An empty clientValue means "no preference", which resolves to
// the first candidate. ok is false if no candidate satisfies the client at
// all (every matching entry had q=0, or none matched).
func Negotiate(clientValue string, spec Spec) (chosen string, ok bool) {
	if len(spec.Candidates) == 0 {
		return "", false
	}

	clientValue = strings.TrimSpace(clientValue)
	if clientValue == "" {
		return spec.Candidates[0], true
	}

	prefs := parsePreferences(clientValue)

	best := ""
	bestQ := -1.0

	for _, candidate := range spec.Candidates {
		q := matchQuality(candidate, prefs)
		if q > bestQ {
			best, bestQ = candidate, q
		}
	}

	if bestQ <= 0 {
		return "", false
	}

	return best, true
}

func parsePreferences(header string) []weighted {
	parts := strings.Split(header, ",")
	prefs := make([]weighted, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		value, params, _ := strings.Cut(part, ";")
		value = strings.TrimSpace(value)
		quality := 1.0

		for _, param := range strings.Split(params, ";") {
			param = strings.TrimSpace(param)
			name, val, found := strings.Cut(param, "=")
			if found && strings.EqualFold(strings.TrimSpace(name), "q") {
				if q, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
					quality = q
				}
			}
		}

		prefs = append(prefs, weighted{value: value, quality: quality})
	}

	sort.SliceStable(prefs, func(i, j int) bool {
		return prefs[i].quality > prefs[j].quality
	})

	return prefs
}

func matchQuality(candidate string, prefs []weighted) float64 {
	for _, p := range prefs {
		if p.value == "*" || p.value == "*/*" || strings.EqualFold(p.value, candidate) {
			return p.quality
		}
	}

	return 0
}
