// Package discovery publishes process endpoints into etcd so operators and
// external tooling can find a running cluster.
//
// This is advertisement only, not membership: the coordinator's worker
// list comes from static configuration and never from etcd, because shard
// assignment depends on the configured ordering. A process with no etcd
// endpoints configured skips advertisement entirely, and a failed
// advertisement is a warning, never a startup failure.
package discovery

import (
	"context"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

const dialTimeout = 5 * time.Second

// Advertise writes key -> addr into etcd and closes the client again.
// Typical keys are "food-app/coordinator/<id>" and
// "food-app/worker/<id>".
func Advertise(ctx context.Context, endpoints []string, key, addr string) error {
	if len(endpoints) == 0 {
		return nil
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to etcd %v: %w", endpoints, err)
	}
	defer cli.Close()

	putCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if _, err := cli.Put(putCtx, key, addr); err != nil {
		return fmt.Errorf("advertise %s in etcd: %w", key, err)
	}
	return nil
}

// Key builds the conventional advertisement key for a role and id.
func Key(role, id string) string {
	return fmt.Sprintf("food-app/%s/%s", role, id)
}
