// Package core sequences one orchestration cycle: resolve the scenario,
// take the per-port fixture lock, reclaim the port, reset persisted state,
// then launch the server and wait for it to report readiness.
//
// The Orchestrator depends on the Reclaimer, Resetter and Spawner interfaces
// so each step can be replaced in tests.
package core
