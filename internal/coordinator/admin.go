package coordinator

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// AdminHandler exposes a small read-only HTTP surface next to the wire
// protocol, for operators and probes:
//
//	GET /health        liveness probe
//	GET /workers       the ordered worker list (ordering is load-bearing)
//	GET /shards/{key}  which worker a routing key maps to
//
// It never mutates cluster state; shard assignment is pure hashing over
// the startup worker list.
func AdminHandler(s *Server) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	r.HandleFunc("/workers", func(w http.ResponseWriter, _ *http.Request) {
		type workerView struct {
			Index int    `json:"index"`
			ID    string `json:"id"`
			Addr  string `json:"addr"`
		}
		views := make([]workerView, 0, len(s.workers))
		for i, n := range s.workers {
			views = append(views, workerView{Index: i, ID: n.ID, Addr: n.Addr()})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Workers []workerView `json:"workers"`
		}{Workers: views})
	}).Methods(http.MethodGet)

	r.HandleFunc("/shards/{key}", func(w http.ResponseWriter, req *http.Request) {
		key := mux.Vars(req)["key"]
		if len(s.workers) == 0 {
			http.Error(w, "no workers registered", http.StatusServiceUnavailable)
			return
		}
		idx := Route(key, len(s.workers))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Key    string `json:"key"`
			Index  int    `json:"index"`
			Worker string `json:"worker"`
		}{Key: key, Index: idx, Worker: s.workers[idx].ID})
	}).Methods(http.MethodGet)

	return r
}
