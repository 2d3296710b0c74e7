// Package cluster provides the pieces both binaries need to talk about
// each other: the worker endpoint type and the one-shot request/response
// client used for every coordinator-to-worker call.
//
// # Connection model
//
// Every call is connection-per-request: dial a fresh TCP connection, write
// one framed request, read one response line, close. There is no pooling,
// no retry and no backoff. A failed call is surfaced to the caller, who
// decides what a missing answer means — fatal for a point operation,
// degraded coverage for an aggregate one.
//
// # Topology
//
// The worker set is fixed at coordinator startup and its ordering is
// load-bearing: a store's owning worker is the hash of its name modulo the
// list length, computed once at creation time. Growing or shrinking the
// list after stores exist would silently reroute existing stores to
// workers that have never seen them.
package cluster
