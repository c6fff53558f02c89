package portreclaim

import (
	"fmt"
	"strings"
)

// Method is the transport protocol whose listeners are reclaimed.
type Method int

const (
	// TCP reclaims listening TCP sockets. This is the default.
	TCP Method = iota
	// UDP reclaims bound UDP sockets.
	UDP
)

// IsValid reports whether m is a recognized Method value.
func (m Method) IsValid() bool {
	return m == TCP || m == UDP
}

// String returns the lowercase protocol name.
func (m Method) String() string {
	switch m {
	case TCP:
		return "tcp"
	case UDP:
		return "udp"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod converts "tcp" or "udp" (any case) to a Method. The empty
// string selects TCP.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tcp":
		return TCP, nil
	case "udp":
		return UDP, nil
	default:
		return TCP, fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
}
