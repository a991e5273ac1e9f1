// Pacote notificacao entrega alertas de ocupação aos destinatários configurados (webhook HTTP e modo noop).
package notificacao

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
)

var ErrEntregaFalhou = fmt.Errorf("entrega do alerta falhou")

// Webhook envia o payload do alerta via POST para o serviço de notificação da clínica.
type Webhook struct {
	client        *http.Client
	url           string
	destinatarios []string
}

func NewWebhook(url string, destinatarios []string) *Webhook {
	return &Webhook{
		client:        &http.Client{Timeout: 10 * time.Second},
		url:           url,
		destinatarios: destinatarios,
	}
}

type alertaPayload struct {
	SalaID                string   `json:"sala_id"`
	Data                  string   `json:"data"`
	Turno                 string   `json:"turno"`
	OcupacaoCriancas      int      `json:"ocupacao_criancas"`
	OcupacaoProfissionais int      `json:"ocupacao_profissionais"`
	PercentualOcupacao    int      `json:"percentual_ocupacao"`
	Destinatarios         []string `json:"destinatarios"`
}

func (w *Webhook) Notificar(ctx context.Context, alerta domain.AlertaOcupacao) error {
	if w.url == "" {
		return fmt.Errorf("notificacao: webhook sem URL configurada")
	}

	payload, err := json.Marshal(alertaPayload{
		SalaID:                string(alerta.SalaID),
		Data:                  alerta.Data.Format("2006-01-02"),
		Turno:                 string(alerta.Turno),
		OcupacaoCriancas:      alerta.OcupacaoCriancas,
		OcupacaoProfissionais: alerta.OcupacaoProfissionais,
		PercentualOcupacao:    alerta.PercentualOcupacao,
		Destinatarios:         w.destinatarios,
	})
	if err != nil {
		return fmt.Errorf("notificacao: falha serializando alerta: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notificacao: montar requisicao: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEntregaFalhou, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrEntregaFalhou, resp.StatusCode)
	}

	return nil
}

var _ domain.Notificador = (*Webhook)(nil)
