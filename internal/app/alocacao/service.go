// Pacote alocacao implementa o livro de alocações: entrada e saída de
// profissionais das salas com o limite de capacidade por turno.
package alocacao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/ids"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/metrics"
)

// Avaliador dispara a avaliação de ocupação após mutações; melhor esforço.
type Avaliador interface {
	AvaliarAlerta(ctx context.Context, salaID domain.SalaID, data time.Time, turno domain.Turno) error
}

// Service guarda a regra de capacidade e delega a atomicidade ao repositório.
type Service struct {
	salas     domain.SalaRepository
	alocacoes domain.AlocacaoRepository
	contador  domain.Contador
	avaliador Avaliador
	clock     domain.Clock
	ids       *ids.Generator
}

func NewService(
	salas domain.SalaRepository,
	alocacoes domain.AlocacaoRepository,
	contador domain.Contador,
	avaliador Avaliador,
	clock domain.Clock,
	idsGen *ids.Generator,
) *Service {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	return &Service{
		salas:     salas,
		alocacoes: alocacoes,
		contador:  contador,
		avaliador: avaliador,
		clock:     clock,
		ids:       idsGen,
	}
}

// Alocar valida a entrada e insere a alocação; a contagem e a inserção rodam
// numa única transação no repositório, então duas chamadas concorrentes nunca
// estouram a capacidade juntas.
func (s *Service) Alocar(ctx context.Context, profissionalID domain.ProfissionalID, salaID domain.SalaID, turno domain.Turno, dataInicio time.Time) (domain.Alocacao, error) {
	if profissionalID == "" || salaID == "" {
		metrics.ObserveAlocacao("invalid")
		return domain.Alocacao{}, fmt.Errorf("%w: profissional e sala obrigatorios", domain.ErrValidacao)
	}
	if !turno.Valido() {
		metrics.ObserveAlocacao("invalid")
		return domain.Alocacao{}, fmt.Errorf("%w: turno desconhecido %q", domain.ErrValidacao, turno)
	}

	sala, err := s.salas.FindByID(ctx, salaID)
	if err != nil {
		metrics.ObserveAlocacao("not_found")
		return domain.Alocacao{}, err
	}
	if !sala.Ativa {
		metrics.ObserveAlocacao("invalid")
		return domain.Alocacao{}, fmt.Errorf("%w: sala aposentada", domain.ErrValidacao)
	}

	agora := s.clock.Agora()
	if dataInicio.IsZero() {
		dataInicio = agora
	}

	alocacao := domain.Alocacao{
		ID:             domain.AlocacaoID(s.ids.New()),
		SalaID:         salaID,
		ProfissionalID: profissionalID,
		Turno:          turno,
		DataInicio:     dataInicio,
		Ativa:          true,
		CriadoEm:       agora,
		AtualizadoEm:   agora,
	}

	if err := s.alocacoes.CriarComCapacidade(ctx, alocacao, sala.CapacidadeProfissionais); err != nil {
		if errors.Is(err, domain.ErrCapacidadeExcedida) {
			metrics.ObserveAlocacao("capacity_exceeded")
		} else {
			metrics.ObserveAlocacao("error")
		}
		return domain.Alocacao{}, err
	}

	metrics.ObserveAlocacao("accepted")

	if s.contador != nil {
		if _, err := s.contador.Incrementar(ctx, ChaveProfissionais(salaID, turno), 1); err != nil {
			// Contador é cache de exibição; a falha não desfaz a alocação.
			metrics.ObserveAlocacao("counter_error")
		}
	}

	if s.avaliador != nil {
		_ = s.avaliador.AvaliarAlerta(ctx, salaID, dataInicio, turno)
	}

	return alocacao, nil
}

// Desalocar é idempotente: encerrar uma alocação já inativa devolve o estado
// atual sem erro.
func (s *Service) Desalocar(ctx context.Context, id domain.AlocacaoID, dataFim time.Time) (domain.Alocacao, error) {
	if id == "" {
		return domain.Alocacao{}, fmt.Errorf("%w: id da alocacao obrigatorio", domain.ErrValidacao)
	}
	if dataFim.IsZero() {
		dataFim = s.clock.Agora()
	}

	atual, err := s.alocacoes.FindByID(ctx, id)
	if err != nil {
		return domain.Alocacao{}, err
	}

	encerrada, err := s.alocacoes.Encerrar(ctx, id, dataFim)
	if err != nil {
		return domain.Alocacao{}, err
	}

	if atual.Ativa && s.contador != nil {
		if _, err := s.contador.Incrementar(ctx, ChaveProfissionais(atual.SalaID, atual.Turno), -1); err != nil {
			metrics.ObserveAlocacao("counter_error")
		}
	}

	return encerrada, nil
}

func (s *Service) ListarAtivas(ctx context.Context, salaID domain.SalaID, turno domain.Turno, referencia time.Time) ([]domain.Alocacao, error) {
	if salaID == "" {
		return nil, fmt.Errorf("%w: sala obrigatoria", domain.ErrValidacao)
	}
	if turno != "" && !turno.Valido() {
		return nil, fmt.Errorf("%w: turno desconhecido %q", domain.ErrValidacao, turno)
	}
	if referencia.IsZero() {
		referencia = s.clock.Agora()
	}
	return s.alocacoes.ListAtivas(ctx, salaID, turno, referencia)
}
