// Pacote redis implementa a fila de alertas e os contadores de ocupação sobre Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
)

// FilaAlertas usa listas Redis para desacoplar a criação do alerta do despacho
// feito pelo worker.
type FilaAlertas struct {
	client *redis.Client
	key    string
}

func NewFilaAlertas(client *redis.Client, key string) *FilaAlertas {
	return &FilaAlertas{
		client: client,
		key:    key,
	}
}

func (f *FilaAlertas) PublicarAlerta(ctx context.Context, id domain.AlertaID) error {
	if err := f.client.LPush(ctx, f.key, string(id)).Err(); err != nil {
		return fmt.Errorf("redis fila: falha ao enfileirar alerta: %w", err)
	}
	return nil
}

func (f *FilaAlertas) ConsumirAlertas(ctx context.Context, handler func(context.Context, domain.AlertaID) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// BRPOP mantém o consumo bloqueado mas com timeout curto para respeitar o contexto.
		res, err := f.client.BRPop(ctx, 5*time.Second, f.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("redis fila: falha ao consumir alerta: %w", err)
		}

		if len(res) != 2 || res[1] == "" {
			continue
		}

		// Handler decide o destino do alerta; propagamos erro para interromper a rotina.
		if err := handler(ctx, domain.AlertaID(res[1])); err != nil {
			return err
		}
	}
}

var _ domain.FilaAlertas = (*FilaAlertas)(nil)
