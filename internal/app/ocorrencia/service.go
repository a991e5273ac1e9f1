// Pacote ocorrencia implementa o registro da recepção: atrasos, falhas de
// guia e faltas, com o desconto automático por atraso.
package ocorrencia

import (
	"context"
	"fmt"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/ids"
)

// Registro agrupa os dados de entrada de uma nova ocorrência.
type Registro struct {
	AgendamentoID domain.AgendamentoID
	PacienteID    domain.PacienteID
	Tipo          domain.TipoOcorrencia
	Descricao     string
	MinutosAtraso int
	RegistradoPor domain.ProfissionalID
	// ValorSessao opcional; quando informado, o valor absoluto do desconto é
	// congelado junto com o percentual.
	ValorSessao float64
}

type Service struct {
	ocorrencias domain.OcorrenciaRepository
	clock       domain.Clock
	ids         *ids.Generator
}

func NewService(ocorrencias domain.OcorrenciaRepository, clock domain.Clock, idsGen *ids.Generator) *Service {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	return &Service{ocorrencias: ocorrencias, clock: clock, ids: idsGen}
}

// Registrar valida e grava a ocorrência; o desconto por atraso é calculado
// uma única vez aqui e nunca recalculado depois.
func (s *Service) Registrar(ctx context.Context, registro Registro) (domain.Ocorrencia, error) {
	if registro.AgendamentoID == "" || registro.PacienteID == "" || registro.RegistradoPor == "" {
		return domain.Ocorrencia{}, fmt.Errorf("%w: agendamento, paciente e registrador obrigatorios", domain.ErrValidacao)
	}
	if !registro.Tipo.Valido() {
		return domain.Ocorrencia{}, fmt.Errorf("%w: tipo de ocorrencia desconhecido %q", domain.ErrValidacao, registro.Tipo)
	}
	if registro.MinutosAtraso < 0 {
		return domain.Ocorrencia{}, fmt.Errorf("%w: minutos de atraso negativos", domain.ErrValidacao)
	}
	if registro.Tipo != domain.OcorrenciaAtraso && registro.MinutosAtraso > 0 {
		return domain.Ocorrencia{}, fmt.Errorf("%w: minutos de atraso so se aplicam a ocorrencias de atraso", domain.ErrValidacao)
	}

	desconto := 0
	if registro.Tipo == domain.OcorrenciaAtraso {
		desconto = domain.CalcularDescontoAtraso(registro.MinutosAtraso)
	}

	agora := s.clock.Agora()
	ocorrencia := domain.Ocorrencia{
		ID:                 domain.OcorrenciaID(s.ids.New()),
		AgendamentoID:      registro.AgendamentoID,
		PacienteID:         registro.PacienteID,
		Tipo:               registro.Tipo,
		Descricao:          registro.Descricao,
		MinutosAtraso:      registro.MinutosAtraso,
		DescontoPercentual: desconto,
		ValorDesconto:      registro.ValorSessao * float64(desconto) / 100,
		RegistradoPor:      registro.RegistradoPor,
		Resolvida:          false,
		CriadoEm:           agora,
		AtualizadoEm:       agora,
	}

	if err := s.ocorrencias.Create(ctx, ocorrencia); err != nil {
		return domain.Ocorrencia{}, err
	}
	return ocorrencia, nil
}

// Resolver marca a ocorrência como tratada; a transição é de mão única e
// resolver de novo é um no-op.
func (s *Service) Resolver(ctx context.Context, id domain.OcorrenciaID, observacoes string) (domain.Ocorrencia, error) {
	ocorrencia, err := s.ocorrencias.FindByID(ctx, id)
	if err != nil {
		return domain.Ocorrencia{}, err
	}
	if ocorrencia.Resolvida {
		return ocorrencia, nil
	}

	ocorrencia.Resolvida = true
	if observacoes != "" {
		ocorrencia.Observacoes = observacoes
	}
	ocorrencia.AtualizadoEm = s.clock.Agora()

	if err := s.ocorrencias.Update(ctx, ocorrencia); err != nil {
		return domain.Ocorrencia{}, err
	}
	return ocorrencia, nil
}

func (s *Service) ListarPorAgendamento(ctx context.Context, id domain.AgendamentoID) ([]domain.Ocorrencia, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: agendamento obrigatorio", domain.ErrValidacao)
	}
	return s.ocorrencias.ListByAgendamento(ctx, id)
}
