// Package catalog holds the worker-local slice of the store catalog: the
// shard of stores a worker owns, the mutation operations on them, and the
// map-task scans run during aggregate queries.
//
// A Shard is an in-memory map from store name to store state. Which worker
// owns a store is decided once, at creation time, by the coordinator's
// router; a shard never sees a store it does not own. All mutating
// operations on a shard are serialized through a single lock, which keeps
// every read-modify-write (purchase decrements, rating recomputation,
// price-tier updates) trivially atomic per store. Map-task scans take the
// read side of the lock and may run alongside each other.
//
// Error values returned by shard operations are domain errors: they are
// reported to the caller as failure statuses, never treated as crashes.
package catalog
