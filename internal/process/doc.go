// Package process launches the application server and decides, from its
// output alone, whether it came up.
//
// A Supervisor spawns one process, pumps its stdout and stderr through
// parent-owned pipes, and resolves to exactly one outcome: Ready when the
// readiness marker appears on stdout, or a failure when the process cannot be
// spawned, exits first, or the caller's context expires. The Supervisor never
// terminates the process; the returned Handle lets the caller do that.
//
// Handle.Stop signals the whole process group: SIGTERM first, SIGKILL after
// a grace period.
package process
