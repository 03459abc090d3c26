package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// INCR и PEXPIRE выполняются одним скриптом, чтобы параллельные неудачные
// попытки не теряли обновления окна.
var hitScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
redis.call('PEXPIRE', KEYS[1], ARGV[1])
return n
`)

// Hit увеличивает счётчик и переустанавливает его окно. Возвращает новое значение.
func (c *Cache) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	const op = "cache.Hit"
	n, err := hitScript.Run(ctx, c.Db, []string{key}, window.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// Counter возвращает текущее значение счётчика, 0 если ключа нет.
func (c *Cache) Counter(ctx context.Context, key string) (int64, error) {
	const op = "cache.Counter"
	n, err := c.Db.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// Acquire ставит ключ-защёлку на window. Возвращает false, если защёлка уже стоит.
func (c *Cache) Acquire(ctx context.Context, key string, window time.Duration) (bool, error) {
	const op = "cache.Acquire"
	ok, err := c.Db.SetNX(ctx, key, "1", window).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}
