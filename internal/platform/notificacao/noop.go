package notificacao

import (
	"context"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
)

// Noop representa a entrega de alertas desabilitada.
type Noop struct{}

func NewNoop() Noop {
	return Noop{}
}

func (Noop) Notificar(ctx context.Context, alerta domain.AlertaOcupacao) error {
	// Implementação vazia usada quando nenhum webhook é configurado.
	return nil
}

var _ domain.Notificador = Noop{}
