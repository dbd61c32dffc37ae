// Package bridge forwards log and statistics events emitted by engine threads
// to a host runtime that only accepts calls from a registered thread.
//
// Producers (engine hooks, any goroutine or native thread) push events onto an
// EventQueue and signal a Monitor; they never block beyond the queue mutex. A
// single consumer goroutine, locked to its OS thread and attached to the host
// Runtime, drains the queue in FIFO order and invokes the host callbacks
// synchronously. The Controller owns the enable/disable state machine: it
// starts and stops the consumer and installs or restores the engine hooks.
//
// Files by concern:
//
//   - event.go: LogEvent and StatsEvent.
//   - queue.go: EventQueue, a mutex-guarded FIFO with an open/closed gate.
//   - monitor.go: Monitor, bounded-latency wait/notify.
//   - runtime.go: Runtime and Env, the host attach contract.
//   - consumer.go: the consumer goroutine and its lifecycle.
//   - controller.go: Controller (enable, disable, emit, log level).
//   - metrics.go: Prometheus collectors.
//
// On Disable the consumer delivers every event still queued before it detaches;
// events emitted while the bridge is disabled are dropped and counted.
package bridge
