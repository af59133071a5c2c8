package ban

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	strikeKeyPrefix = "ratelimit:strikes:"
	banKeyPrefix    = "ratelimit:banned:"
	DailyBanLogKey  = "ratelimit:banlog:daily"
)

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Strike(ctx context.Context, target string, window time.Duration) (int64, error) {
	key := strikeKeyPrefix + target

	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

func (s *RedisStore) Ban(ctx context.Context, target string, d time.Duration) error {
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, banKeyPrefix+target, time.Now().Unix(), d)
	pipe.Del(ctx, strikeKeyPrefix+target)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) IsBanned(ctx context.Context, target string) (bool, error) {
	err := s.rdb.Get(ctx, banKeyPrefix+target).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) LogBan(ctx context.Context, entry LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.rdb.RPush(ctx, DailyBanLogKey, data).Err()
}

func (s *RedisStore) DrainLog(ctx context.Context) ([]LogEntry, error) {
	pipe := s.rdb.TxPipeline()
	lrange := pipe.LRange(ctx, DailyBanLogKey, 0, -1)
	pipe.Del(ctx, DailyBanLogKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	var entries []LogEntry
	for _, item := range lrange.Val() {
		var entry LogEntry
		if err := json.Unmarshal([]byte(item), &entry); err == nil {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
