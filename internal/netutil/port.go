package netutil

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"
)

// maxPortRetries is the maximum number of attempts to find a port not already
// in the registry.
const maxPortRetries = 20

// PortRegistry tracks ports currently reserved by this process to prevent
// the race where two concurrent Allocate calls receive the same port from the
// kernel because the first caller closed its listener before the second
// caller opened theirs.
type PortRegistry struct {
	mu    sync.Mutex
	ports map[int]struct{}
	log   *slog.Logger
}

// NewPortRegistry creates a new PortRegistry ready for use.
// If logger is nil, slog.Default() is used as a fallback.
func NewPortRegistry(logger *slog.Logger) *PortRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortRegistry{
		ports: make(map[int]struct{}),
		log:   logger,
	}
}

// reserve registers port and reports whether it was not yet taken.
func (r *PortRegistry) reserve(port int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ports[port]; ok {
		return false
	}
	r.ports[port] = struct{}{}
	return true
}

// Release removes a port from the registry, allowing it to be reused.
func (r *PortRegistry) Release(port int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ports, port)
}

// Allocate returns a free loopback TCP port and registers it. The port stays
// reserved until Release is called, even after the kernel has handed it out
// again to someone else.
func (r *PortRegistry) Allocate() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("resolve tcp address: %w", err)
	}

	for range maxPortRetries {
		l, err := net.ListenTCP("tcp", addr)
		if err != nil {
			return 0, fmt.Errorf("listen on tcp address: %w", err)
		}
		tcpAddr, ok := l.Addr().(*net.TCPAddr)
		if !ok {
			_ = l.Close()
			return 0, fmt.Errorf("unexpected listener address type %T", l.Addr())
		}
		reserved := r.reserve(tcpAddr.Port)
		if closeErr := l.Close(); closeErr != nil {
			r.log.Warn("close listener after port allocation", "port", tcpAddr.Port, "error", closeErr)
		}
		if reserved {
			return tcpAddr.Port, nil
		}
		r.log.Debug("port already in registry, retrying", "port", tcpAddr.Port)
	}
	return 0, fmt.Errorf("allocate unique port: exhausted %d attempts", maxPortRetries)
}

// Listening reports whether a server accepts TCP connections on the
// loopback port.
func Listening(port int) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), 200*time.Millisecond)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
