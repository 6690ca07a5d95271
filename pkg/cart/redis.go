package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// RedisCartStorage persists the serialized line list under a fixed key prefix.
type RedisCartStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartStorage(addr, password string, db int, ttl time.Duration) *RedisCartStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCartStorage{client: rdb, ttl: ttl}
}

func (s *RedisCartStorage) Fetch(ctx context.Context, key string) ([]Line, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var lines []Line
	if err := json.Unmarshal([]byte(data), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *RedisCartStorage) Save(ctx context.Context, key string, lines []Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKeyPrefix+key, data, s.ttl).Err()
}

func (s *RedisCartStorage) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, cartKeyPrefix+key).Err()
}

func (s *RedisCartStorage) Close() error {
	return s.client.Close()
}
