// Pacote worker contém o processamento assíncrono dos alertas de ocupação vindos da fila Redis.
package worker

import (
	"context"
	"fmt"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
)

// Despachante entrega um alerta persistido aos destinatários.
type Despachante interface {
	Despachar(ctx context.Context, id domain.AlertaID) error
}

// AlertaProcessor consome ids de alerta da fila e delega a entrega com
// retentativa ao serviço de ocupação.
type AlertaProcessor struct {
	despachante Despachante
}

func NewAlertaProcessor(despachante Despachante) *AlertaProcessor {
	return &AlertaProcessor{despachante: despachante}
}

func (p *AlertaProcessor) Process(ctx context.Context, id domain.AlertaID) error {
	if id == "" {
		return fmt.Errorf("worker: id de alerta vazio")
	}
	if err := p.despachante.Despachar(ctx, id); err != nil {
		return fmt.Errorf("worker: despachar alerta %s: %w", id, err)
	}
	return nil
}
