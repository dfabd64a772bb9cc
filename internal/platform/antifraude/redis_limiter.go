// Pacote antifraude limita o volume de palpites por usuário (janela fixa no Redis ou modo noop).
package antifraude

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/quiniela/internal/domain"
)

var ErrRateLimitExceeded = errors.New("limite de palpites atingido")

// RedisRateLimiter conta envios de palpite por usuário e quiniela em janelas fixas.
type RedisRateLimiter struct {
	client    *redis.Client
	limit     int
	window    time.Duration
	keyPrefix string
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RedisRateLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisRateLimiter{
		client:    client,
		limit:     limit,
		window:    window,
		keyPrefix: prefix,
	}
}

func (r *RedisRateLimiter) Validar(ctx context.Context, palpite domain.Palpite) error {
	if r.client == nil || r.limit <= 0 || r.window <= 0 {
		return nil
	}

	key := r.buildKey(palpite)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("antifraude: incrementar %s: %w", key, err)
	}

	// Só a primeira escrita da janela define a expiração.
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return fmt.Errorf("antifraude: expirar %s: %w", key, err)
		}
	}

	if count > int64(r.limit) {
		return fmt.Errorf("%w: %d envios em %s", ErrRateLimitExceeded, count, r.window)
	}
	return nil
}

func (r *RedisRateLimiter) buildKey(palpite domain.Palpite) string {
	return fmt.Sprintf("%s:palpite:%s:%s", r.keyPrefix, palpite.QuinielaID, palpite.UsuarioID)
}

var _ domain.Antifraude = (*RedisRateLimiter)(nil)
