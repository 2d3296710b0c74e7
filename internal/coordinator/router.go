package coordinator

import "hash/fnv"

// Route maps a routing key to a worker index in [0, numWorkers).
//
// FNV-1a is deterministic across processes and restarts, which is the one
// property that matters here: a store's owning worker is fixed at creation
// time, so every later lookup must hash the same way. The modulo is taken
// in uint32 so a hash with the top bit set cannot produce a negative index
// on a 32-bit int. Callers must have rejected numWorkers == 0 as "no
// workers registered" before routing.
func Route(key string, numWorkers int) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(numWorkers))
}
