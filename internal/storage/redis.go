package storage

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisOpTimeout bounds every bridge call so a slow Redis never stalls a
// store mutation; the contract is best effort either way.
const redisOpTimeout = 2 * time.Second

// RedisBridge stores snapshots as JSON strings in Redis, for deployments
// that want durability outside the local filesystem.
type RedisBridge struct {
	client *redis.Client
	prefix string
}

// NewRedisBridge wraps an existing client. The prefix namespaces the fixed
// snapshot keys so several instances can share one Redis.
func NewRedisBridge(client *redis.Client, prefix string) *RedisBridge {
	return &RedisBridge{client: client, prefix: prefix}
}

func (b *RedisBridge) key(key string) string {
	if b.prefix == "" {
		return key
	}
	return b.prefix + ":" + key
}

// Load implements Bridge.
func (b *RedisBridge) Load(key string, out interface{}) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := b.client.Get(ctx, b.key(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[storage] redis read %s failed: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("[storage] discarding corrupt snapshot %s: %v", key, err)
		return false
	}
	return true
}

// Save implements Bridge.
func (b *RedisBridge) Save(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[storage] cannot serialize snapshot %s: %v", key, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := b.client.Set(ctx, b.key(key), data, 0).Err(); err != nil {
		log.Printf("[storage] redis write %s failed: %v", key, err)
	}
}

// Delete implements Bridge.
func (b *RedisBridge) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := b.client.Del(ctx, b.key(key)).Err(); err != nil {
		log.Printf("[storage] redis delete %s failed: %v", key, err)
	}
}
