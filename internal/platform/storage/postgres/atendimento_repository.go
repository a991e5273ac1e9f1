package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
)

// AtendimentoRepository persiste atendimentos reais e suas evoluções.
type AtendimentoRepository struct {
	db *gorm.DB
}

func NewAtendimentoRepository(db *gorm.DB) *AtendimentoRepository {
	return &AtendimentoRepository{db: db}
}

type atendimentoModel struct {
	ID              string `gorm:"column:id;primaryKey"`
	AgendamentoID   string `gorm:"column:agendamento_id;index"`
	ProfissionalID  string `gorm:"column:profissional_id;index"`
	SalaID          string `gorm:"column:sala_id;index"`
	PacienteID      string `gorm:"column:paciente_id"`
	EspecialidadeID string `gorm:"column:especialidade_id"`

	HorarioInicio  time.Time  `gorm:"column:horario_inicio"`
	HorarioFim     *time.Time `gorm:"column:horario_fim"`
	Periodo1Inicio *time.Time `gorm:"column:periodo_1_inicio"`
	Periodo1Fim    *time.Time `gorm:"column:periodo_1_fim"`
	Periodo2Inicio *time.Time `gorm:"column:periodo_2_inicio"`
	Periodo2Fim    *time.Time `gorm:"column:periodo_2_fim"`
	DuracaoMinutos int        `gorm:"column:duracao_minutos"`

	ValorSessao         float64    `gorm:"column:valor_sessao"`
	PercentualPagamento int        `gorm:"column:percentual_pagamento"`
	EvolucaoFeita       bool       `gorm:"column:evolucao_feita"`
	Supervisionado      bool       `gorm:"column:supervisionado"`
	SupervisionadoPor   *string    `gorm:"column:supervisionado_por"`
	DataSupervisao      *time.Time `gorm:"column:data_supervisao"`
	PagamentoLiberado   bool       `gorm:"column:pagamento_liberado"`

	Versao       int       `gorm:"column:versao"`
	CriadoEm     time.Time `gorm:"column:criado_em"`
	AtualizadoEm time.Time `gorm:"column:atualizado_em"`
}

func (atendimentoModel) TableName() string {
	return "atendimentos"
}

func (m atendimentoModel) toDomain() domain.Atendimento {
	a := domain.Atendimento{
		ID:              domain.AtendimentoID(m.ID),
		AgendamentoID:   domain.AgendamentoID(m.AgendamentoID),
		ProfissionalID:  domain.ProfissionalID(m.ProfissionalID),
		SalaID:          domain.SalaID(m.SalaID),
		PacienteID:      domain.PacienteID(m.PacienteID),
		EspecialidadeID: domain.EspecialidadeID(m.EspecialidadeID),

		HorarioInicio:  m.HorarioInicio,
		HorarioFim:     m.HorarioFim,
		Periodo1Inicio: m.Periodo1Inicio,
		Periodo1Fim:    m.Periodo1Fim,
		Periodo2Inicio: m.Periodo2Inicio,
		Periodo2Fim:    m.Periodo2Fim,
		DuracaoMinutos: m.DuracaoMinutos,

		ValorSessao:         m.ValorSessao,
		PercentualPagamento: m.PercentualPagamento,
		EvolucaoFeita:       m.EvolucaoFeita,
		Supervisionado:      m.Supervisionado,
		DataSupervisao:      m.DataSupervisao,
		PagamentoLiberado:   m.PagamentoLiberado,

		Versao:       m.Versao,
		CriadoEm:     m.CriadoEm,
		AtualizadoEm: m.AtualizadoEm,
	}
	if m.SupervisionadoPor != nil {
		supervisor := domain.ProfissionalID(*m.SupervisionadoPor)
		a.SupervisionadoPor = &supervisor
	}
	return a
}

func fromDomainAtendimento(a domain.Atendimento) atendimentoModel {
	m := atendimentoModel{
		ID:              string(a.ID),
		AgendamentoID:   string(a.AgendamentoID),
		ProfissionalID:  string(a.ProfissionalID),
		SalaID:          string(a.SalaID),
		PacienteID:      string(a.PacienteID),
		EspecialidadeID: string(a.EspecialidadeID),

		HorarioInicio:  a.HorarioInicio,
		HorarioFim:     a.HorarioFim,
		Periodo1Inicio: a.Periodo1Inicio,
		Periodo1Fim:    a.Periodo1Fim,
		Periodo2Inicio: a.Periodo2Inicio,
		Periodo2Fim:    a.Periodo2Fim,
		DuracaoMinutos: a.DuracaoMinutos,

		ValorSessao:         a.ValorSessao,
		PercentualPagamento: a.PercentualPagamento,
		EvolucaoFeita:       a.EvolucaoFeita,
		Supervisionado:      a.Supervisionado,
		DataSupervisao:      a.DataSupervisao,
		PagamentoLiberado:   a.PagamentoLiberado,

		Versao:       a.Versao,
		CriadoEm:     a.CriadoEm,
		AtualizadoEm: a.AtualizadoEm,
	}
	if a.SupervisionadoPor != nil {
		supervisor := string(*a.SupervisionadoPor)
		m.SupervisionadoPor = &supervisor
	}
	return m
}

type evolucaoModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	AtendimentoID  string    `gorm:"column:atendimento_id;uniqueIndex"`
	ProfissionalID string    `gorm:"column:profissional_id"`
	Texto          string    `gorm:"column:texto"`
	CriadoEm       time.Time `gorm:"column:criado_em"`
}

func (evolucaoModel) TableName() string {
	return "evolucoes"
}

func (m evolucaoModel) toDomain() domain.Evolucao {
	return domain.Evolucao{
		ID:             domain.EvolucaoID(m.ID),
		AtendimentoID:  domain.AtendimentoID(m.AtendimentoID),
		ProfissionalID: domain.ProfissionalID(m.ProfissionalID),
		Texto:          m.Texto,
		CriadoEm:       m.CriadoEm,
	}
}

func (r *AtendimentoRepository) Create(ctx context.Context, a domain.Atendimento) error {
	model := fromDomainAtendimento(a)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("gorm atendimentos: inserir: %w", err)
	}
	return nil
}

func (r *AtendimentoRepository) FindByID(ctx context.Context, id domain.AtendimentoID) (domain.Atendimento, error) {
	var model atendimentoModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Atendimento{}, domain.ErrNotFound
		}
		return domain.Atendimento{}, fmt.Errorf("gorm atendimentos: buscar id: %w", err)
	}
	return model.toDomain(), nil
}

// UpdateVersioned grava o atendimento apenas se ninguém alterou a versão desde
// a leitura; RowsAffected zero vira ErrConflito para o chamador decidir.
func (r *AtendimentoRepository) UpdateVersioned(ctx context.Context, a domain.Atendimento, versaoEsperada int) error {
	model := fromDomainAtendimento(a)
	model.Versao = versaoEsperada + 1

	res := r.db.WithContext(ctx).Model(&atendimentoModel{}).
		Where("id = ? AND versao = ?", model.ID, versaoEsperada).
		Updates(map[string]any{
			"horario_fim":          model.HorarioFim,
			"periodo_1_inicio":     model.Periodo1Inicio,
			"periodo_1_fim":        model.Periodo1Fim,
			"periodo_2_inicio":     model.Periodo2Inicio,
			"periodo_2_fim":        model.Periodo2Fim,
			"duracao_minutos":      model.DuracaoMinutos,
			"percentual_pagamento": model.PercentualPagamento,
			"evolucao_feita":       model.EvolucaoFeita,
			"supervisionado":       model.Supervisionado,
			"supervisionado_por":   model.SupervisionadoPor,
			"data_supervisao":      model.DataSupervisao,
			"pagamento_liberado":   model.PagamentoLiberado,
			"versao":               model.Versao,
			"atualizado_em":        model.AtualizadoEm,
		})
	if res.Error != nil {
		return fmt.Errorf("gorm atendimentos: atualizar versionado: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrConflito
	}
	return nil
}

func (r *AtendimentoRepository) ListPendentesSupervisao(ctx context.Context, inicio, fim time.Time, profissionalID domain.ProfissionalID) ([]domain.Atendimento, error) {
	query := r.db.WithContext(ctx).
		Where("evolucao_feita = ? AND supervisionado = ?", true, false).
		Where("horario_inicio >= ? AND horario_inicio <= ?", inicio, fim)
	if profissionalID != "" {
		query = query.Where("profissional_id = ?", string(profissionalID))
	}

	var models []atendimentoModel
	// Mais antigos primeiro para escoar o backlog de supervisão pela fila.
	if err := query.Order("horario_inicio ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm atendimentos: listar pendentes: %w", err)
	}

	result := make([]domain.Atendimento, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

func (r *AtendimentoRepository) CountPorSalaTurno(ctx context.Context, salaID domain.SalaID, data time.Time, turno domain.Turno) (int64, error) {
	inicioDia := time.Date(data.Year(), data.Month(), data.Day(), 0, 0, 0, 0, data.Location())
	fimDia := inicioDia.Add(24 * time.Hour)

	var janelaInicio, janelaFim time.Time
	switch turno {
	case domain.TurnoManha:
		janelaInicio, janelaFim = inicioDia, inicioDia.Add(12*time.Hour)
	case domain.TurnoTarde:
		janelaInicio, janelaFim = inicioDia.Add(12*time.Hour), inicioDia.Add(18*time.Hour)
	case domain.TurnoNoite:
		janelaInicio, janelaFim = inicioDia.Add(18*time.Hour), fimDia
	default:
		janelaInicio, janelaFim = inicioDia, fimDia
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&atendimentoModel{}).
		Where("sala_id = ?", string(salaID)).
		Where("horario_inicio >= ? AND horario_inicio < ?", janelaInicio, janelaFim).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("gorm atendimentos: contar sala/turno: %w", err)
	}
	return total, nil
}

func (r *AtendimentoRepository) CreateEvolucao(ctx context.Context, e domain.Evolucao) error {
	model := evolucaoModel{
		ID:             string(e.ID),
		AtendimentoID:  string(e.AtendimentoID),
		ProfissionalID: string(e.ProfissionalID),
		Texto:          e.Texto,
		CriadoEm:       e.CriadoEm,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("gorm evolucoes: inserir: %w", err)
	}
	return nil
}

func (r *AtendimentoRepository) FindEvolucaoByAtendimento(ctx context.Context, id domain.AtendimentoID) (domain.Evolucao, error) {
	var model evolucaoModel
	if err := r.db.WithContext(ctx).First(&model, "atendimento_id = ?", string(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Evolucao{}, domain.ErrNotFound
		}
		return domain.Evolucao{}, fmt.Errorf("gorm evolucoes: buscar atendimento: %w", err)
	}
	return model.toDomain(), nil
}

var _ domain.AtendimentoRepository = (*AtendimentoRepository)(nil)
