// Command worker runs one shard-owning worker node.
//
// Configuration comes from an optional YAML file (-config) with
// environment overrides:
//
//	WORKER_LISTEN    wire listen address (default ":8081")
//	WORKER_ID        node identifier (defaults to the listen address)
//	ETCD_ENDPOINTS   optional etcd endpoints for advertisement
//
// The worker starts empty; stores arrive through ADD_STORE_REQUEST
// forwarded by the coordinator, which is also the only party expected to
// connect.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/krimits/Food-App/internal/config"
	"github.com/krimits/Food-App/internal/discovery"
	"github.com/krimits/Food-App/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadWorker(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	srv := worker.NewServer(cfg.ID)

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		log.Fatalf("listen on %s: %v", cfg.Listen, err)
	}
	go func() {
		log.Printf("worker %s listening on %s", cfg.ID, ln.Addr())
		if err := srv.Serve(ln); err != nil {
			log.Fatalf("serve: %v", err)
		}
	}()

	if err := discovery.Advertise(context.Background(), cfg.EtcdEndpoints,
		discovery.Key("worker", cfg.ID), cfg.Listen); err != nil {
		log.Printf("warning: etcd advertisement failed: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	_ = srv.Close()
	log.Printf("worker %s stopped", cfg.ID)
}
