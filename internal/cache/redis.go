package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/Leganyst/booking-core/internal/booking"
	"github.com/Leganyst/booking-core/internal/config"
)

// NewRedisClient подключается к Redis и проверяет его коротким ping.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// RedisSlotCache хранит ресторан+день одним хэшем, по полю на размер компании.
// Одновременные промахи по одному ключу делят одну загрузку.
//
// У каждого хэша есть счётчик поколений: Invalidate его увеличивает, а
// загрузка пишет результат, только если счётчик не менялся с её начала.
// Так сетка, прочитанная до коммита брони, не переживает её инвалидацию.
type RedisSlotCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *slog.Logger
	group  singleflight.Group
}

func NewRedisSlotCache(client redis.UniversalClient, ttl time.Duration, log *slog.Logger) *RedisSlotCache {
	if log == nil {
		log = slog.Default()
	}
	return &RedisSlotCache{client: client, ttl: ttl, log: log}
}

func generationKey(bucket string) string {
	return bucket + ":gen"
}

func (c *RedisSlotCache) GetOrLoad(
	ctx context.Context,
	key SlotKey,
	load func(ctx context.Context) ([]booking.Slot, error),
) ([]booking.Slot, error) {
	bucket, field := key.bucket(), key.field()

	if slots, ok := c.get(ctx, bucket, field); ok {
		return slots, nil
	}

	v, err, _ := c.group.Do(bucket+"/"+field, func() (any, error) {
		// Загрузка, завершившаяся между промахом и Do, уже заполнила ключ.
		if slots, ok := c.get(ctx, bucket, field); ok {
			return slots, nil
		}
		gen, err := c.generation(ctx, c.client, bucket)
		if err != nil {
			c.log.Warn("slot cache generation read failed", slog.String("key", bucket), slog.Any("error", err))
			return load(ctx)
		}
		slots, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, bucket, field, gen, slots)
		return slots, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]booking.Slot), nil
}

// getter — общее у клиента и транзакции под WATCH.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *RedisSlotCache) generation(ctx context.Context, cmd getter, bucket string) (int64, error) {
	gen, err := cmd.Get(ctx, generationKey(bucket)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisSlotCache) get(ctx context.Context, bucket, field string) ([]booking.Slot, bool) {
	raw, err := c.client.HGet(ctx, bucket, field).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// Сбой кэша не должен ломать чтение доступности.
			c.log.Warn("slot cache read failed", slog.String("key", bucket), slog.Any("error", err))
		}
		return nil, false
	}
	var slots []booking.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

// store пишет сетку под WATCH счётчика поколений. Если с начала загрузки
// прошла инвалидация, запись пропускается.
func (c *RedisSlotCache) store(ctx context.Context, bucket, field string, loadedAt int64, slots []booking.Slot) {
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	genKey := generationKey(bucket)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		gen, err := c.generation(ctx, tx, bucket)
		if err != nil {
			return err
		}
		if gen != loadedAt {
			c.log.Debug("slot grid went stale during load", slog.String("key", bucket))
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, bucket, field, raw)
			pipe.Expire(ctx, bucket, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return
	}
	if err != nil {
		c.log.Warn("slot cache write failed", slog.String("key", bucket), slog.Any("error", err))
	}
}

// Invalidate сбрасывает сетки дней и сдвигает их поколения.
func (c *RedisSlotCache) Invalidate(ctx context.Context, restaurantID uuid.UUID, dates ...time.Time) error {
	if len(dates) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range dates {
			bucket := bucketKey(restaurantID, d)
			pipe.Incr(ctx, generationKey(bucket))
			// Поколение переживает любую загрузку, начатую до инвалидации.
			pipe.Expire(ctx, generationKey(bucket), 2*c.ttl)
			pipe.Del(ctx, bucket)
		}
		return nil
	})
	return err
}
