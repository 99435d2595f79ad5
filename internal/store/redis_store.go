package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz-master-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const resultsIndexKey = "results:index"

// RedisStore keeps each result as a JSON blob. A sorted set scored by finish
// time gives the listing order and a per-code sorted set, scored the same way,
// finds the latest game played under that code.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration // 0 = keep forever
}

// NewRedisStore connects and pings the server before returning.
func NewRedisStore(ctx context.Context, opts *redis.Options, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Save(ctx context.Context, result *models.GameResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	ok, err := s.client.SetNX(ctx, resultKey(result.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	if !ok {
		return ErrResultExists
	}

	// Both sets are scored by finish time so saves may arrive in any order.
	member := redis.Z{Score: float64(result.FinishedAt.UnixMilli()), Member: result.ID}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, resultsIndexKey, member)
		pipe.ZAdd(ctx, codeKey(result.Code), member)
		if s.ttl > 0 {
			pipe.Expire(ctx, codeKey(result.Code), s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index result: %w", err)
	}
	return nil
}

// List skips index members whose blob has expired, trims them from the index
// and reads further down until limit live results are found.
func (s *RedisStore) List(ctx context.Context, limit int) ([]models.GameResult, error) {
	if limit <= 0 {
		return nil, nil
	}

	var results []models.GameResult
	for len(results) < limit {
		// trimmed members are gone, so live ones already read sit at the top
		start := int64(len(results))
		ids, err := s.client.ZRevRange(ctx, resultsIndexKey, start, int64(limit-1)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read result index: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		live, expired, err := s.load(ctx, ids)
		if err != nil {
			return nil, err
		}
		results = append(results, live...)
		if len(expired) == 0 {
			break
		}
		if err := s.client.ZRem(ctx, resultsIndexKey, expired...).Err(); err != nil {
			return nil, fmt.Errorf("failed to trim result index: %w", err)
		}
	}
	return results, nil
}

func (s *RedisStore) GetByCode(ctx context.Context, code string) (*models.GameResult, error) {
	ids, err := s.client.ZRevRange(ctx, codeKey(code), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var expired []interface{}
	for _, id := range ids {
		data, err := s.client.Get(ctx, resultKey(id)).Result()
		if errors.Is(err, redis.Nil) {
			expired = append(expired, id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get result: %w", err)
		}

		var r models.GameResult
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		if len(expired) > 0 {
			s.client.ZRem(ctx, codeKey(code), expired...)
		}
		return &r, nil
	}

	if len(expired) > 0 {
		s.client.ZRem(ctx, codeKey(code), expired...)
	}
	return nil, ErrResultNotFound
}

// load fetches the blobs for ids in order. Ids whose blob is gone come back
// in expired.
func (s *RedisStore) load(ctx context.Context, ids []string) ([]models.GameResult, []interface{}, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = resultKey(id)
	}
	blobs, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get results: %w", err)
	}

	results := make([]models.GameResult, 0, len(blobs))
	var expired []interface{}
	for i, blob := range blobs {
		str, ok := blob.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var r models.GameResult
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		results = append(results, r)
	}
	return results, expired, nil
}

func resultKey(id string) string {
	return fmt.Sprintf("result:%s", id)
}

func codeKey(code string) string {
	return fmt.Sprintf("result:code:%s", code)
}
