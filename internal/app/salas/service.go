// Pacote salas implementa o diretório de salas terapêuticas: consulta, atualização e aposentadoria.
package salas

import (
	"context"
	"fmt"
	"strings"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/ids"
)

// Patch carrega os campos alteráveis de uma sala; ponteiros nulos ficam como estão.
type Patch struct {
	Nome                    *string
	Cor                     *string
	Especialidade           *string
	Unidade                 *string
	CapacidadeCriancas      *int
	CapacidadeProfissionais *int
}

// Service cobre as operações de diretório; as capacidades são lidas pelo
// serviço de alocação como restrição, nunca alteradas por ele.
type Service struct {
	salas domain.SalaRepository
	clock domain.Clock
	ids   *ids.Generator
}

func NewService(salas domain.SalaRepository, clock domain.Clock, idsGen *ids.Generator) *Service {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	return &Service{salas: salas, clock: clock, ids: idsGen}
}

func (s *Service) CriarSala(ctx context.Context, sala domain.Sala) (domain.Sala, error) {
	if strings.TrimSpace(sala.Nome) == "" {
		return domain.Sala{}, fmt.Errorf("%w: nome obrigatorio", domain.ErrValidacao)
	}
	if sala.CapacidadeCriancas <= 0 || sala.CapacidadeProfissionais <= 0 {
		return domain.Sala{}, fmt.Errorf("%w: capacidades devem ser positivas", domain.ErrValidacao)
	}

	agora := s.clock.Agora()
	sala.ID = domain.SalaID(s.ids.New())
	sala.Ativa = true
	sala.CriadoEm = agora
	sala.AtualizadoEm = agora

	if err := s.salas.Create(ctx, sala); err != nil {
		return domain.Sala{}, err
	}
	return sala, nil
}

func (s *Service) BuscarSala(ctx context.Context, id domain.SalaID) (domain.Sala, error) {
	return s.salas.FindByID(ctx, id)
}

func (s *Service) ListarSalas(ctx context.Context, especialidade, unidade string) ([]domain.Sala, error) {
	return s.salas.List(ctx, especialidade, unidade)
}

func (s *Service) AtualizarSala(ctx context.Context, id domain.SalaID, patch Patch) (domain.Sala, error) {
	sala, err := s.salas.FindByID(ctx, id)
	if err != nil {
		return domain.Sala{}, err
	}

	if patch.Nome != nil {
		if strings.TrimSpace(*patch.Nome) == "" {
			return domain.Sala{}, fmt.Errorf("%w: nome obrigatorio", domain.ErrValidacao)
		}
		sala.Nome = *patch.Nome
	}
	if patch.Cor != nil {
		sala.Cor = *patch.Cor
	}
	if patch.Especialidade != nil {
		sala.Especialidade = *patch.Especialidade
	}
	if patch.Unidade != nil {
		sala.Unidade = *patch.Unidade
	}
	if patch.CapacidadeCriancas != nil {
		if *patch.CapacidadeCriancas <= 0 {
			return domain.Sala{}, fmt.Errorf("%w: capacidade de criancas deve ser positiva", domain.ErrValidacao)
		}
		sala.CapacidadeCriancas = *patch.CapacidadeCriancas
	}
	if patch.CapacidadeProfissionais != nil {
		if *patch.CapacidadeProfissionais <= 0 {
			return domain.Sala{}, fmt.Errorf("%w: capacidade de profissionais deve ser positiva", domain.ErrValidacao)
		}
		sala.CapacidadeProfissionais = *patch.CapacidadeProfissionais
	}

	sala.AtualizadoEm = s.clock.Agora()
	if err := s.salas.Update(ctx, sala); err != nil {
		return domain.Sala{}, err
	}
	return sala, nil
}

// DesativarSala aposenta a sala sem removê-la: alocações históricas continuam
// referenciando o registro.
func (s *Service) DesativarSala(ctx context.Context, id domain.SalaID) (domain.Sala, error) {
	sala, err := s.salas.FindByID(ctx, id)
	if err != nil {
		return domain.Sala{}, err
	}
	if !sala.Ativa {
		return sala, nil
	}

	sala.Ativa = false
	sala.AtualizadoEm = s.clock.Agora()
	if err := s.salas.Update(ctx, sala); err != nil {
		return domain.Sala{}, err
	}
	return sala, nil
}
