package coordinator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krimits/Food-App/internal/cluster"
)

func adminGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// TestAdminHealth verifies the liveness probe.
func TestAdminHealth(t *testing.T) {
	h := AdminHandler(NewServer(nil, Options{}))
	assert.Equal(t, http.StatusOK, adminGet(t, h, "/health").Code)
}

// TestAdminWorkers verifies the worker listing preserves the startup
// ordering, since the index doubles as the shard index.
func TestAdminWorkers(t *testing.T) {
	workers := []cluster.WorkerNode{
		{ID: "w0", Host: "10.0.0.1", Port: 8081},
		{ID: "w1", Host: "10.0.0.2", Port: 8081},
	}
	h := AdminHandler(NewServer(workers, Options{}))

	rec := adminGet(t, h, "/workers")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Workers []struct {
			Index int    `json:"index"`
			ID    string `json:"id"`
			Addr  string `json:"addr"`
		} `json:"workers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Workers, 2)
	assert.Equal(t, 0, body.Workers[0].Index)
	assert.Equal(t, "w0", body.Workers[0].ID)
	assert.Equal(t, "10.0.0.1:8081", body.Workers[0].Addr)
	assert.Equal(t, "w1", body.Workers[1].ID)
}

// TestAdminShardLookup verifies the routing probe agrees with Route.
func TestAdminShardLookup(t *testing.T) {
	workers := []cluster.WorkerNode{
		{ID: "w0", Host: "10.0.0.1", Port: 8081},
		{ID: "w1", Host: "10.0.0.2", Port: 8081},
		{ID: "w2", Host: "10.0.0.3", Port: 8081},
	}
	h := AdminHandler(NewServer(workers, Options{}))

	rec := adminGet(t, h, "/shards/PizzaFun")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Key    string `json:"key"`
		Index  int    `json:"index"`
		Worker string `json:"worker"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "PizzaFun", body.Key)
	assert.Equal(t, Route("PizzaFun", len(workers)), body.Index)
	assert.Equal(t, workers[body.Index].ID, body.Worker)
}

// TestAdminShardLookupNoWorkers verifies the empty-cluster answer.
func TestAdminShardLookupNoWorkers(t *testing.T) {
	h := AdminHandler(NewServer(nil, Options{}))
	assert.Equal(t, http.StatusServiceUnavailable, adminGet(t, h, "/shards/PizzaFun").Code)
}
