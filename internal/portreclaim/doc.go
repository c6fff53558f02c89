// Package portreclaim frees a local port before a test server is launched on
// it.
//
// A Reclaimer asks a Lister which processes are listening on the port and
// hands their PIDs to a Killer. Listers and Killers are chosen per platform by
// NewForPlatform: lsof and SIGKILL on unix-like systems, netstat and taskkill
// on Windows. Finding no listener is the expected case and is not an error.
package portreclaim
