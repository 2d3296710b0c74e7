// Package worker implements the worker side of the system: a TCP server
// that owns one catalog shard and answers the coordinator one request per
// connection.
//
// Point operations mutate or read the local shard; SEARCH_STORES_REQUEST
// and MAP_TASK_REQUEST run the map-task executor over the locally owned
// stores and return partial entries for the coordinator's reduce. Domain
// failures (unknown store, hidden product, under-stock, bad rating) are
// answered as FAILURE statuses with a human-readable reason; the worker
// never drops a connection it can still answer on.
package worker
