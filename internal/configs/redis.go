package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/rueidis"
)

const redisPingTimeout = 5 * time.Second

// NewRedisClient connects to the lock server and exits when it does not
// answer a PING, so a wrong REDIS_ADDR is reported at startup.
func NewRedisClient(cfg Config) rueidis.Client {
	client, err := rueidis.NewClient(
		rueidis.ClientOption{
			InitAddress:  []string{cfg.RedisAddr},
			DisableCache: true,
		},
	)
	if err != nil {
		log.Fatalf("failed to create redis client for %s: %v", cfg.RedisAddr, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := pingRedis(ctx, client); err != nil {
		client.Close()
		log.Fatalf("redis at %s is not reachable: %v", cfg.RedisAddr, err)
	}

	return client
}

func pingRedis(ctx context.Context, client rueidis.Client) error {
	pong, err := client.Do(ctx, client.B().Ping().Build()).ToString()
	if err != nil {
		return err
	}
	if pong != "PONG" {
		return fmt.Errorf("unexpected PING reply %q", pong)
	}
	return nil
}
