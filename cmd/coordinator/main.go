// Command coordinator runs the routing and aggregation front end of the
// cluster.
//
// Configuration comes from an optional YAML file (-config) with
// environment overrides:
//
//	COORDINATOR_ADDR         wire listen address (default ":8080")
//	COORDINATOR_ADMIN_ADDR   optional HTTP admin address
//	COORDINATOR_WORKERS      comma-separated ordered host:port list
//	ETCD_ENDPOINTS           optional etcd endpoints for advertisement
//
// The worker list ordering determines shard assignment and must not
// change for the lifetime of the data.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slices"

	"github.com/krimits/Food-App/internal/cluster"
	"github.com/krimits/Food-App/internal/config"
	"github.com/krimits/Food-App/internal/coordinator"
	"github.com/krimits/Food-App/internal/discovery"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadCoordinator(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	workers := make([]cluster.WorkerNode, 0, len(cfg.Workers))
	var seen []string
	for _, endpoint := range cfg.Workers {
		node, err := cluster.ParseWorker(endpoint)
		if err != nil {
			log.Fatalf("bad worker endpoint: %v", err)
		}
		if slices.Contains(seen, node.ID) {
			log.Fatalf("duplicate worker endpoint %s: a worker may appear only once in the shard list", node.ID)
		}
		seen = append(seen, node.ID)
		workers = append(workers, node)
	}
	if len(workers) == 0 {
		log.Println("warning: no workers registered; point operations will be reported unavailable")
	}
	for i, n := range workers {
		log.Printf("worker[%d] = %s", i, n.ID)
	}

	srv := coordinator.NewServer(workers, coordinator.Options{
		ClientTimeout:  cfg.ClientTimeout.Std(),
		ForwardTimeout: cfg.ForwardTimeout.Std(),
		ScatterTimeout: cfg.ScatterTimeout.Std(),
	})

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		log.Fatalf("listen on %s: %v", cfg.Listen, err)
	}
	go func() {
		log.Printf("coordinator listening on %s (%d workers)", ln.Addr(), len(workers))
		if err := srv.Serve(ln); err != nil {
			log.Fatalf("serve: %v", err)
		}
	}()

	var adminSrv *http.Server
	if cfg.AdminListen != "" {
		adminSrv = &http.Server{
			Addr:              cfg.AdminListen,
			Handler:           coordinator.AdminHandler(srv),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Printf("admin API listening on %s", cfg.AdminListen)
			if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("admin listen: %v", err)
			}
		}()
	}

	if err := discovery.Advertise(context.Background(), cfg.EtcdEndpoints,
		discovery.Key("coordinator", cfg.Listen), cfg.Listen); err != nil {
		log.Printf("warning: etcd advertisement failed: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if adminSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = adminSrv.Shutdown(ctx)
		cancel()
	}
	_ = srv.Close()
	log.Println("coordinator stopped")
}
