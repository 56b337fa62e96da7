package exports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "kitchenops:export:"
	redisTimeout   = 10 * time.Second
)

var (
	redisClients   = make(map[string]*redis.Client)
	redisClientsMu sync.Mutex
)

// redisClient returns a pinged client for url, reusing one per URL.
func redisClient(ctx context.Context, url string) (*redis.Client, error) {
	redisClientsMu.Lock()
	defer redisClientsMu.Unlock()

	if client, ok := redisClients[url]; ok {
		return client, nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("exports: parse redis url: %w", err)
	}
	opt.PoolSize = 20
	opt.MinIdleConns = 2
	opt.ConnMaxIdleTime = 200 * time.Second

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("exports: ping redis: %w", err)
	}

	redisClients[url] = client
	return client, nil
}

// RedisStore keeps artifacts as JSON values with the file bytes base64 encoded.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to url.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	client, err := redisClient(ctx, url)
	if err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Put(ctx context.Context, artifact Artifact, ttl time.Duration) (string, error) {
	if err := checkArtifact(artifact, ttl); err != nil {
		return "", err
	}
	payload, err := encodeArtifact(artifact)
	if err != nil {
		return "", err
	}

	token := newToken()
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	if err := s.client.Set(ctx, redisKey(token), payload, ttl).Err(); err != nil {
		return "", fmt.Errorf("exports: save to redis: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (Artifact, error) {
	if !validToken(token) {
		return Artifact{}, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	payload, err := s.client.Get(ctx, redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Artifact{}, ErrNotFound
		}
		return Artifact{}, fmt.Errorf("exports: read from redis: %w", err)
	}
	return decodeArtifact(payload)
}

func redisKey(token string) string {
	return redisKeyPrefix + token
}

func encodeArtifact(artifact Artifact) ([]byte, error) {
	payload, err := json.Marshal(artifact)
	if err != nil {
		return nil, fmt.Errorf("exports: encode artifact: %w", err)
	}
	return payload, nil
}

func decodeArtifact(payload []byte) (Artifact, error) {
	var artifact Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return Artifact{}, fmt.Errorf("exports: decode artifact: %w", err)
	}
	return artifact, nil
}
