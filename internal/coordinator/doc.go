// Package coordinator implements the routing and aggregation layer of the
// system: the process clients talk to, and the only process that talks to
// workers.
//
// # Overview
//
// The coordinator serves two request classes over the same wire protocol:
//
//   - Point operations are scoped to one store. The router hashes the
//     routing key (the store name) onto the fixed worker list, the request
//     is forwarded verbatim to that single worker, and the worker's one
//     response line is relayed back untouched.
//   - Aggregate operations need every shard. The aggregator fans a map
//     task out to all workers concurrently, collects whatever partial
//     entries arrive within the per-call bound, and reduces them into one
//     answer in-process.
//
// # Request flow
//
//	Client ──► Dispatcher ──┬─► Router ──► one Worker            (point)
//	                        └─► Aggregator ──► all Workers ──► reduce
//
// # Failure handling
//
// A point operation either fully succeeds or reports why it did not:
// missing routing key and unknown operations fail before any worker is
// contacted, and a refused or timed-out worker call is surfaced as a
// forwarding failure, never retried. For aggregates, a worker that does
// not answer within the bound simply contributes nothing; the reduce runs
// over whatever arrived and the query still succeeds with reduced
// coverage.
package coordinator
