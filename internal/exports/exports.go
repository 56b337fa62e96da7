// Package exports keeps generated report files for a limited time so they can be downloaded
// through a token link instead of being streamed inline.
package exports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kitchenops/internal/config"
)

var (
	ErrNotFound     = errors.New("exports: artifact not found")
	ErrEmptyPayload = errors.New("exports: artifact has no data")
)

// Artifact is a rendered file.
type Artifact struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Store keeps artifacts until their TTL elapses.
type Store interface {
	Put(ctx context.Context, artifact Artifact, ttl time.Duration) (string, error)
	Get(ctx context.Context, token string) (Artifact, error)
}

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.ExportsConfig) (Store, error) {
	switch cfg.Backend {
	case "", config.ExportsBackendMemory:
		return NewMemoryStore(), nil
	case config.ExportsBackendRedis:
		return NewRedisStore(ctx, cfg.RedisURL)
	case config.ExportsBackendS3:
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("exports: unknown backend %q", cfg.Backend)
	}
}

func newToken() string {
	return uuid.NewString()
}

func validToken(token string) bool {
	_, err := uuid.Parse(token)
	return err == nil
}

func checkArtifact(artifact Artifact, ttl time.Duration) error {
	if len(artifact.Data) == 0 {
		return ErrEmptyPayload
	}
	if ttl <= 0 {
		return fmt.Errorf("exports: ttl must be positive, got %s", ttl)
	}
	return nil
}
