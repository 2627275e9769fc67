package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/romangod6/sitemapd/internal/models"
)

// RedisStore keeps settings as plain string keys under a prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(redisURL, prefix string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, prefix: prefix}, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) TypeSettings(ctx context.Context, key string) (models.TypeSettings, error) {
	vals, err := r.client.MGet(ctx,
		r.prefix+IncludeKey(key),
		r.prefix+FrequencyKey(key),
		r.prefix+PriorityKey(key),
	).Result()
	if err != nil {
		return models.TypeSettings{}, fmt.Errorf("redis mget error: %w", err)
	}

	include, found := vals[0].(string)
	frequency, _ := vals[1].(string)
	priority, _ := vals[2].(string)

	return models.TypeSettings{
		Included:  parseIncluded(include, found),
		Frequency: frequency,
		Priority:  priority,
	}, nil
}

func (r *RedisStore) SaveTypeSettings(ctx context.Context, key string, ts models.TypeSettings) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.prefix+IncludeKey(key), formatIncluded(ts.Included), 0)
		pipe.Set(ctx, r.prefix+FrequencyKey(key), ts.Frequency, 0)
		pipe.Set(ctx, r.prefix+PriorityKey(key), ts.Priority, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

// Clear removes every settings key under the prefix.
func (r *RedisStore) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"sitemap_*", 0).Iterator()
	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning keys: %w", err)
	}

	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("error deleting keys: %w", err)
		}
	}

	return nil
}
