// Pacote atendimento implementa o ciclo de vida do atendimento real: início,
// períodos, evolução, supervisão e liberação progressiva do pagamento.
package atendimento

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vidaplena/modulo-terapeutico/internal/app/alocacao"
	"github.com/vidaplena/modulo-terapeutico/internal/domain"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/ids"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/metrics"
)

// Percentuais liberados em cada estágio do fluxo de supervisão.
const (
	PercentualInicial       = 0
	PercentualPosEvolucao   = 50
	PercentualPosSupervisao = 100
)

var (
	ErrEvolucaoDuplicada = fmt.Errorf("%w: evolucao ja registrada para o atendimento", domain.ErrTransicaoInvalida)
	ErrSemEvolucao       = fmt.Errorf("%w: atendimento sem evolucao registrada", domain.ErrTransicaoInvalida)
	ErrJaSupervisionado  = fmt.Errorf("%w: atendimento ja supervisionado", domain.ErrTransicaoInvalida)
	ErrPeriodosInvalidos = fmt.Errorf("%w: periodos com limites invalidos", domain.ErrValidacao)
)

// Inicio agrupa os dados do agendamento externo que semeiam o atendimento real.
type Inicio struct {
	AgendamentoID   domain.AgendamentoID
	ProfissionalID  domain.ProfissionalID
	SalaID          domain.SalaID
	PacienteID      domain.PacienteID
	EspecialidadeID domain.EspecialidadeID
	ValorSessao     float64
	HorarioInicio   time.Time
}

// Avaliador dispara a avaliação de ocupação da sala após o início da sessão.
type Avaliador interface {
	AvaliarAlerta(ctx context.Context, salaID domain.SalaID, data time.Time, turno domain.Turno) error
}

// Service concentra as transições de estado; toda mutação relê o registro e
// grava com verificação de versão.
type Service struct {
	atendimentos domain.AtendimentoRepository
	ocorrencias  domain.OcorrenciaRepository
	contador     domain.Contador
	avaliador    Avaliador
	clock        domain.Clock
	ids          *ids.Generator
}

func NewService(
	atendimentos domain.AtendimentoRepository,
	ocorrencias domain.OcorrenciaRepository,
	contador domain.Contador,
	avaliador Avaliador,
	clock domain.Clock,
	idsGen *ids.Generator,
) *Service {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	return &Service{
		atendimentos: atendimentos,
		ocorrencias:  ocorrencias,
		contador:     contador,
		avaliador:    avaliador,
		clock:        clock,
		ids:          idsGen,
	}
}

// Iniciar cria o atendimento real a partir do agendamento, com pagamento
// zerado e flags de supervisão desligadas.
func (s *Service) Iniciar(ctx context.Context, inicio Inicio) (domain.Atendimento, error) {
	if inicio.AgendamentoID == "" || inicio.ProfissionalID == "" || inicio.SalaID == "" || inicio.PacienteID == "" {
		return domain.Atendimento{}, fmt.Errorf("%w: agendamento, profissional, sala e paciente obrigatorios", domain.ErrValidacao)
	}
	if inicio.ValorSessao < 0 {
		return domain.Atendimento{}, fmt.Errorf("%w: valor da sessao negativo", domain.ErrValidacao)
	}

	agora := s.clock.Agora()
	horario := inicio.HorarioInicio
	if horario.IsZero() {
		horario = agora
	}

	atendimento := domain.Atendimento{
		ID:              domain.AtendimentoID(s.ids.New()),
		AgendamentoID:   inicio.AgendamentoID,
		ProfissionalID:  inicio.ProfissionalID,
		SalaID:          inicio.SalaID,
		PacienteID:      inicio.PacienteID,
		EspecialidadeID: inicio.EspecialidadeID,
		HorarioInicio:   horario,
		ValorSessao:     inicio.ValorSessao,

		PercentualPagamento: PercentualInicial,
		EvolucaoFeita:       false,
		Supervisionado:      false,
		PagamentoLiberado:   false,

		Versao:       1,
		CriadoEm:     agora,
		AtualizadoEm: agora,
	}

	if err := s.atendimentos.Create(ctx, atendimento); err != nil {
		return domain.Atendimento{}, err
	}

	turno := domain.TurnoDoHorario(horario)
	if s.contador != nil {
		// Cache de exibição; falha aqui não desfaz o atendimento persistido.
		_, _ = s.contador.Incrementar(ctx, alocacao.ChaveCriancas(atendimento.SalaID, turno), 1)
	}
	if s.avaliador != nil {
		_ = s.avaliador.AvaliarAlerta(ctx, atendimento.SalaID, horario, turno)
	}

	return atendimento, nil
}

// RegistrarPeriodos grava os limites da sessão, inclusive o desdobramento em
// dois períodos quando ela foi interrompida e retomada. A duração em minutos
// é derivada e recalculada a cada mudança de limites.
func (s *Service) RegistrarPeriodos(ctx context.Context, id domain.AtendimentoID, periodo1 domain.Periodo, periodo2 *domain.Periodo) (domain.Atendimento, error) {
	if periodo1.Inicio.IsZero() || periodo1.Fim.IsZero() || !periodo1.Fim.After(periodo1.Inicio) {
		return domain.Atendimento{}, ErrPeriodosInvalidos
	}
	if periodo2 != nil {
		if periodo2.Inicio.IsZero() || periodo2.Fim.IsZero() || !periodo2.Fim.After(periodo2.Inicio) {
			return domain.Atendimento{}, ErrPeriodosInvalidos
		}
		if periodo2.Inicio.Before(periodo1.Fim) {
			return domain.Atendimento{}, fmt.Errorf("%w: segundo periodo comeca antes do fim do primeiro", domain.ErrValidacao)
		}
	}

	atendimento, err := s.atendimentos.FindByID(ctx, id)
	if err != nil {
		return domain.Atendimento{}, err
	}
	versao := atendimento.Versao

	atendimento.HorarioInicio = periodo1.Inicio
	atendimento.Periodo1Inicio = &periodo1.Inicio
	atendimento.Periodo1Fim = &periodo1.Fim
	fim := periodo1.Fim
	if periodo2 != nil {
		atendimento.Periodo2Inicio = &periodo2.Inicio
		atendimento.Periodo2Fim = &periodo2.Fim
		fim = periodo2.Fim
	} else {
		atendimento.Periodo2Inicio = nil
		atendimento.Periodo2Fim = nil
	}
	atendimento.HorarioFim = &fim
	atendimento.DuracaoMinutos = duracaoMinutos(periodo1, periodo2)
	atendimento.AtualizadoEm = s.clock.Agora()

	if err := s.atendimentos.UpdateVersioned(ctx, atendimento, versao); err != nil {
		return domain.Atendimento{}, err
	}
	atendimento.Versao = versao + 1
	return atendimento, nil
}

// RegistrarEvolucao grava a nota clínica e libera o pagamento parcial. A
// evolução é única por atendimento e imutável; correção vira registro novo.
func (s *Service) RegistrarEvolucao(ctx context.Context, id domain.AtendimentoID, profissionalID domain.ProfissionalID, texto string) (domain.Atendimento, error) {
	if profissionalID == "" {
		return domain.Atendimento{}, fmt.Errorf("%w: profissional obrigatorio", domain.ErrValidacao)
	}
	if strings.TrimSpace(texto) == "" {
		return domain.Atendimento{}, fmt.Errorf("%w: texto da evolucao obrigatorio", domain.ErrValidacao)
	}

	atendimento, err := s.atendimentos.FindByID(ctx, id)
	if err != nil {
		return domain.Atendimento{}, err
	}
	if atendimento.EvolucaoFeita {
		return domain.Atendimento{}, ErrEvolucaoDuplicada
	}
	if _, err := s.atendimentos.FindEvolucaoByAtendimento(ctx, id); err == nil {
		return domain.Atendimento{}, ErrEvolucaoDuplicada
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Atendimento{}, err
	}

	agora := s.clock.Agora()
	evolucao := domain.Evolucao{
		ID:             domain.EvolucaoID(s.ids.New()),
		AtendimentoID:  id,
		ProfissionalID: profissionalID,
		Texto:          texto,
		CriadoEm:       agora,
	}
	if err := s.atendimentos.CreateEvolucao(ctx, evolucao); err != nil {
		return domain.Atendimento{}, err
	}

	versao := atendimento.Versao
	atendimento.EvolucaoFeita = true
	atendimento.PercentualPagamento = PercentualPosEvolucao
	atendimento.AtualizadoEm = agora

	if err := s.atendimentos.UpdateVersioned(ctx, atendimento, versao); err != nil {
		return domain.Atendimento{}, err
	}
	atendimento.Versao = versao + 1
	return atendimento, nil
}

// Supervisionar aprova a evolução e libera o pagamento integral. Exige
// evolução registrada; dois supervisores concorrentes não dobram a liberação,
// o segundo escritor recebe ErrConflito do repositório.
func (s *Service) Supervisionar(ctx context.Context, id domain.AtendimentoID, supervisorID domain.ProfissionalID, observacoes string) (domain.Atendimento, error) {
	if supervisorID == "" {
		metrics.ObserveSupervisao("invalid")
		return domain.Atendimento{}, fmt.Errorf("%w: supervisor obrigatorio", domain.ErrValidacao)
	}

	atendimento, err := s.atendimentos.FindByID(ctx, id)
	if err != nil {
		metrics.ObserveSupervisao("not_found")
		return domain.Atendimento{}, err
	}
	if !atendimento.EvolucaoFeita {
		metrics.ObserveSupervisao("no_evolution")
		return domain.Atendimento{}, ErrSemEvolucao
	}
	if atendimento.Supervisionado {
		metrics.ObserveSupervisao("already_supervised")
		return domain.Atendimento{}, ErrJaSupervisionado
	}

	agora := s.clock.Agora()
	versao := atendimento.Versao
	atendimento.Supervisionado = true
	atendimento.SupervisionadoPor = &supervisorID
	atendimento.DataSupervisao = &agora
	atendimento.PercentualPagamento = PercentualPosSupervisao
	atendimento.PagamentoLiberado = true
	atendimento.AtualizadoEm = agora

	if err := s.atendimentos.UpdateVersioned(ctx, atendimento, versao); err != nil {
		if errors.Is(err, domain.ErrConflito) {
			metrics.ObserveSupervisao("conflict")
		} else {
			metrics.ObserveSupervisao("error")
		}
		return domain.Atendimento{}, err
	}

	metrics.ObserveSupervisao("approved")
	atendimento.Versao = versao + 1
	return atendimento, nil
}

// ValorAPagar aplica o percentual liberado e abate o maior desconto entre as
// ocorrências do agendamento do atendimento.
func (s *Service) ValorAPagar(ctx context.Context, id domain.AtendimentoID) (float64, error) {
	atendimento, err := s.atendimentos.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}

	valor := atendimento.ValorSessao * float64(atendimento.PercentualPagamento) / 100

	ocorrencias, err := s.ocorrencias.ListByAgendamento(ctx, atendimento.AgendamentoID)
	if err != nil {
		return 0, err
	}
	desconto := 0
	for _, o := range ocorrencias {
		if o.DescontoPercentual > desconto {
			desconto = o.DescontoPercentual
		}
	}

	return valor * float64(100-desconto) / 100, nil
}

// ListarPendentesSupervisao devolve atendimentos com evolução feita e
// supervisão pendente, mais antigos primeiro.
func (s *Service) ListarPendentesSupervisao(ctx context.Context, inicio, fim time.Time, profissionalID domain.ProfissionalID) ([]domain.Atendimento, error) {
	if inicio.IsZero() || fim.IsZero() || fim.Before(inicio) {
		return nil, fmt.Errorf("%w: intervalo de datas invalido", domain.ErrValidacao)
	}
	return s.atendimentos.ListPendentesSupervisao(ctx, inicio, fim, profissionalID)
}

func (s *Service) Buscar(ctx context.Context, id domain.AtendimentoID) (domain.Atendimento, error) {
	return s.atendimentos.FindByID(ctx, id)
}

func duracaoMinutos(periodo1 domain.Periodo, periodo2 *domain.Periodo) int {
	total := periodo1.Fim.Sub(periodo1.Inicio)
	if periodo2 != nil {
		total += periodo2.Fim.Sub(periodo2.Inicio)
	}
	return int(total.Minutes())
}
