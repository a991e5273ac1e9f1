// Pacote ocupacao deriva a utilização das salas e emite alertas quando a
// lotação de crianças cruza o limiar configurado.
package ocupacao

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/ids"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/metrics"
)

// Service calcula ocupação a partir do livro de alocações e dos atendimentos,
// e cuida do ciclo criar-despachar dos alertas.
type Service struct {
	salas         domain.SalaRepository
	alocacoes     domain.AlocacaoRepository
	atendimentos  domain.AtendimentoRepository
	alertas       domain.AlertaRepository
	fila          domain.FilaAlertas
	notificador   domain.Notificador
	clock         domain.Clock
	ids           *ids.Generator
	limiar        float64
	destinatarios []string
	maxTentativas int
	backoff       time.Duration
}

func NewService(
	salas domain.SalaRepository,
	alocacoes domain.AlocacaoRepository,
	atendimentos domain.AtendimentoRepository,
	alertas domain.AlertaRepository,
	fila domain.FilaAlertas,
	notificador domain.Notificador,
	clock domain.Clock,
	idsGen *ids.Generator,
	limiar float64,
	destinatarios []string,
	maxTentativas int,
	backoff time.Duration,
) *Service {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	if limiar <= 0 || limiar > 1 {
		limiar = 0.8
	}
	if maxTentativas <= 0 {
		maxTentativas = 3
	}
	return &Service{
		salas:         salas,
		alocacoes:     alocacoes,
		atendimentos:  atendimentos,
		alertas:       alertas,
		fila:          fila,
		notificador:   notificador,
		clock:         clock,
		ids:           idsGen,
		limiar:        limiar,
		destinatarios: destinatarios,
		maxTentativas: maxTentativas,
		backoff:       backoff,
	}
}

// Calcular deriva os contadores e razões de ocupação de uma sala/data/turno.
// Os percentuais são arredondados só para exibição; quem compara com o limiar
// usa as razões brutas para não oscilar na fronteira.
func (s *Service) Calcular(ctx context.Context, salaID domain.SalaID, data time.Time, turno domain.Turno) (domain.Ocupacao, error) {
	if !turno.Valido() {
		return domain.Ocupacao{}, fmt.Errorf("%w: turno desconhecido %q", domain.ErrValidacao, turno)
	}

	sala, err := s.salas.FindByID(ctx, salaID)
	if err != nil {
		return domain.Ocupacao{}, err
	}

	criancas, err := s.atendimentos.CountPorSalaTurno(ctx, salaID, data, turno)
	if err != nil {
		return domain.Ocupacao{}, err
	}

	profissionais, err := s.alocacoes.CountAtivas(ctx, salaID, turno, data)
	if err != nil {
		return domain.Ocupacao{}, err
	}

	ocupacao := domain.Ocupacao{
		SalaID:        salaID,
		Data:          data,
		Turno:         turno,
		Criancas:      int(criancas),
		Profissionais: int(profissionais),
	}
	if sala.CapacidadeCriancas > 0 {
		ocupacao.RazaoCriancas = float64(criancas) / float64(sala.CapacidadeCriancas)
	}
	if sala.CapacidadeProfissionais > 0 {
		ocupacao.RazaoProfissionais = float64(profissionais) / float64(sala.CapacidadeProfissionais)
	}
	ocupacao.PctCriancas = int(math.Round(ocupacao.RazaoCriancas * 100))
	ocupacao.PctProfissionais = int(math.Round(ocupacao.RazaoProfissionais * 100))

	return ocupacao, nil
}

// AvaliarAlerta cria no máximo um alerta por tupla (sala, data, turno) e o
// publica na fila para despacho pelo worker.
func (s *Service) AvaliarAlerta(ctx context.Context, salaID domain.SalaID, data time.Time, turno domain.Turno) error {
	ocupacao, err := s.Calcular(ctx, salaID, data, turno)
	if err != nil {
		return err
	}

	if ocupacao.RazaoCriancas < s.limiar {
		return nil
	}

	existe, err := s.alertas.ExisteParaTupla(ctx, salaID, data, turno)
	if err != nil {
		return err
	}
	if existe {
		return nil
	}

	alerta := domain.AlertaOcupacao{
		ID:                    domain.AlertaID(s.ids.New()),
		SalaID:                salaID,
		Data:                  data,
		Turno:                 turno,
		OcupacaoCriancas:      ocupacao.Criancas,
		OcupacaoProfissionais: ocupacao.Profissionais,
		PercentualOcupacao:    ocupacao.PctCriancas,
		Destinatarios:         strings.Join(s.destinatarios, ","),
		Enviado:               false,
		CriadoEm:              s.clock.Agora(),
	}

	if err := s.alertas.Create(ctx, alerta); err != nil {
		return err
	}
	metrics.IncAlertaCriado()

	if s.fila != nil {
		if err := s.fila.PublicarAlerta(ctx, alerta.ID); err != nil {
			// O alerta persiste como não enviado; o despacho manual recupera.
			return err
		}
	}
	return nil
}

// Despachar entrega o alerta com retentativa limitada. Despachar um alerta já
// enviado é um no-op. Esgotadas as tentativas, o registro permanece como não
// enviado para reenvio manual.
func (s *Service) Despachar(ctx context.Context, id domain.AlertaID) error {
	inicio := time.Now()

	alerta, err := s.alertas.FindByID(ctx, id)
	if err != nil {
		metrics.ObserveAlertaDespachado("not_found")
		return err
	}
	if alerta.Enviado {
		metrics.ObserveAlertaDespachado("duplicate")
		return nil
	}

	var ultimoErr error
	for tentativa := 1; tentativa <= s.maxTentativas; tentativa++ {
		ultimoErr = s.notificador.Notificar(ctx, alerta)
		if ultimoErr == nil {
			break
		}
		if errors.Is(ultimoErr, context.Canceled) || errors.Is(ultimoErr, context.DeadlineExceeded) {
			metrics.ObserveAlertaDespachado("cancelled")
			return ultimoErr
		}
		if tentativa < s.maxTentativas && s.backoff > 0 {
			select {
			case <-ctx.Done():
				metrics.ObserveAlertaDespachado("cancelled")
				return ctx.Err()
			case <-time.After(s.backoff * time.Duration(tentativa)):
			}
		}
	}
	if ultimoErr != nil {
		metrics.ObserveAlertaDespachado("failed")
		metrics.ObserveDespachoDuration(time.Since(inicio).Seconds())
		return fmt.Errorf("ocupacao: despacho do alerta %s esgotou %d tentativas: %w", id, s.maxTentativas, ultimoErr)
	}

	if err := s.alertas.MarcarEnviado(ctx, id, s.clock.Agora()); err != nil {
		metrics.ObserveAlertaDespachado("mark_error")
		return err
	}

	metrics.ObserveAlertaDespachado("sent")
	metrics.ObserveDespachoDuration(time.Since(inicio).Seconds())
	return nil
}
