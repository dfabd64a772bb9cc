// Pacote redis implementa a fila de resultados e os contadores de palpites sobre Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/quiniela/internal/domain"
)

// Fila usa uma lista Redis: a API publica eventos de resultado e o worker consome.
// Eventos cujo handler falha vão para "<key>:falhas" e o consumo segue.
type Fila struct {
	client *redis.Client
	key    string
	espera time.Duration
}

func NewFila(client *redis.Client, key string) *Fila {
	return &Fila{
		client: client,
		key:    key,
		espera: 5 * time.Second,
	}
}

func (f *Fila) PublicarResultado(ctx context.Context, evento domain.EventoResultado) error {
	payload, err := json.Marshal(evento)
	if err != nil {
		return fmt.Errorf("redis fila: serializar evento: %w", err)
	}
	if err := f.client.LPush(ctx, f.key, payload).Err(); err != nil {
		return fmt.Errorf("redis fila: enfileirar evento: %w", err)
	}
	return nil
}

func (f *Fila) ConsumirResultados(ctx context.Context, handler func(context.Context, domain.EventoResultado) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Timeout curto no BRPOP para o loop enxergar o cancelamento.
		res, err := f.client.BRPop(ctx, f.espera, f.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("redis fila: consumir evento: %w", err)
		}

		if len(res) != 2 {
			continue
		}

		var evento domain.EventoResultado
		if err := json.Unmarshal([]byte(res[1]), &evento); err != nil {
			if errFalha := f.registrarFalha(ctx, res[1]); errFalha != nil {
				return errFalha
			}
			continue
		}

		if err := handler(ctx, evento); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			if errFalha := f.registrarFalha(ctx, res[1]); errFalha != nil {
				return errFalha
			}
		}
	}
}

func (f *Fila) Pendentes(ctx context.Context) (int64, error) {
	return f.client.LLen(ctx, f.key).Result()
}

func (f *Fila) Falhas(ctx context.Context) (int64, error) {
	return f.client.LLen(ctx, f.chaveFalhas()).Result()
}

// Reprocessar devolve os eventos que falharam para a fila principal.
func (f *Fila) Reprocessar(ctx context.Context) (int64, error) {
	var movidos int64
	for {
		err := f.client.LMove(ctx, f.chaveFalhas(), f.key, "RIGHT", "LEFT").Err()
		if errors.Is(err, redis.Nil) {
			return movidos, nil
		}
		if err != nil {
			return movidos, fmt.Errorf("redis fila: reprocessar: %w", err)
		}
		movidos++
	}
}

func (f *Fila) registrarFalha(ctx context.Context, payload string) error {
	if err := f.client.LPush(ctx, f.chaveFalhas(), payload).Err(); err != nil {
		return fmt.Errorf("redis fila: registrar falha: %w", err)
	}
	return nil
}

func (f *Fila) chaveFalhas() string {
	return f.key + ":falhas"
}

var _ domain.Fila = (*Fila)(nil)
