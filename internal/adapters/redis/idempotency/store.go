package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/idempotency"
)

const keyPrefix = "idem:"

// Store is a Redis-backed implementation of idempotency.Store.
// Entries expire via Redis TTL, so no purge job is needed.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

type payload struct {
	StatusCode  int       `json:"statusCode"`
	ContentType string    `json:"contentType"`
	Body        []byte    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	raw, err := s.client.Get(ctx, redisKey(fp)).Bytes()
	if errors.Is(err, redis.Nil) {
		return idempotency.Record{}, false, nil
	}
	if err != nil {
		return idempotency.Record{}, false, err
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return idempotency.Record{}, false, fmt.Errorf("decode idempotency record: %w", err)
	}
	return idempotency.Record{
		StatusCode:  p.StatusCode,
		ContentType: p.ContentType,
		Body:        p.Body,
		CreatedAt:   p.CreatedAt.UTC(),
	}, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	v, err := encode(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKey(fp), v, s.ttl).Err()
}

func encode(rec idempotency.Record) (string, error) {
	b, err := json.Marshal(payload{
		StatusCode:  rec.StatusCode,
		ContentType: rec.ContentType,
		Body:        rec.Body,
		CreatedAt:   rec.CreatedAt.UTC(),
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// redisKey hashes the fingerprint so caller-supplied keys cannot inject separators.
func redisKey(fp idempotency.Fingerprint) string {
	parts := []string{string(fp.Key), string(fp.Subject), fp.Method, fp.Route, fp.BodyHash}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return keyPrefix + hex.EncodeToString(sum[:])
}
