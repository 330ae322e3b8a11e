package util

import (
	"context"
	"fmt"
	"sync"
	"time"

	"furniadmin/pkg/logger"
	"furniadmin/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

// Снимаем ключ только если он все еще наш
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Продлеваем ключ, только пока он принадлежит нам
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker - блокировка через SET NX PX с токеном владельца
// TTL защищает от вечной блокировки, если процесс упал посреди прогона.
// Пока блокировка удерживается, ключ продлевается каждую треть TTL
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return nil, false, fmt.Errorf("failed to acquire redis lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.renew(key, token, stop, done)

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			<-done

			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
				metrics.RecordRedisError(serviceName, metrics.RedisOpEval)
				logger.Warn().Err(err).Str("lock_key", key).Msg("Failed to release import lock")
			}
		})
	}

	return release, true, nil
}

// renew продлевает TTL ключа до вызова release
// Если ключ потерян (истек или занят другим), продление прекращается
func (l *RedisLocker) renew(key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			renewed, err := renewScript.Run(ctx, l.client, []string{key}, token, l.ttl.Milliseconds()).Int()
			cancel()

			if err != nil {
				metrics.RecordRedisError(serviceName, metrics.RedisOpEval)
				logger.Warn().Err(err).Str("lock_key", key).Msg("Failed to renew import lock")
				continue
			}
			if renewed == 0 {
				logger.Warn().Str("lock_key", key).Msg("Import lock lost before release")
				return
			}
		}
	}
}

// TxBeginner - часть pgxpool.Pool, нужная блокировке (подменяется pgxmock в тестах)
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresLocker - advisory lock уровня транзакции
// Блокировка живет, пока открыта транзакция, release откатывает ее
type PostgresLocker struct {
	pool TxBeginner
}

func NewPostgresLocker(pool TxBeginner) *PostgresLocker {
	return &PostgresLocker{pool: pool}
}

func (l *PostgresLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin lock transaction: %w", err)
	}

	var acquired bool
	if err := tx.QueryRow(ctx, "SELECT pg_try_advisory_xact_lock(hashtext($1))", key).Scan(&acquired); err != nil {
		_ = tx.Rollback(ctx)
		return nil, false, fmt.Errorf("failed to acquire advisory lock: %w", err)
	}

	if !acquired {
		_ = tx.Rollback(ctx)
		return nil, false, nil
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tx.Rollback(releaseCtx); err != nil {
			logger.Warn().Err(err).Str("lock_key", key).Msg("Failed to release advisory lock")
		}
	}

	return release, true, nil
}

// NoopLocker - без межпроцессной блокировки, остается только блокировка внутри процесса
type NoopLocker struct{}

func (NoopLocker) TryLock(context.Context, string) (func(), bool, error) {
	return func() {}, true, nil
}
