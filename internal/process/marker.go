package process

import "bytes"

// markerMatcher looks for the readiness marker in a stream of chunks. It
// keeps the last len(marker)-1 bytes of the previous chunks so that a marker
// split across two pipe reads is still found.
type markerMatcher struct {
	marker []byte
	carry  []byte
}

func newMarkerMatcher(marker string) *markerMatcher {
	return &markerMatcher{marker: []byte(marker)}
}

// feed reports whether the marker has appeared in the stream so far.
func (m *markerMatcher) feed(chunk []byte) bool {
	window := append(bytes.Clone(m.carry), chunk...)
	if bytes.Contains(window, m.marker) {
		return true
	}
	keep := len(m.marker) - 1
	if len(window) > keep {
		window = window[len(window)-keep:]
	}
	m.carry = window
	return false
}
