package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
)

// OcorrenciaRepository guarda os registros da recepção (atrasos, guias, faltas).
type OcorrenciaRepository struct {
	db *gorm.DB
}

func NewOcorrenciaRepository(db *gorm.DB) *OcorrenciaRepository {
	return &OcorrenciaRepository{db: db}
}

type ocorrenciaModel struct {
	ID                 string    `gorm:"column:id;primaryKey"`
	AgendamentoID      string    `gorm:"column:agendamento_id;index"`
	PacienteID         string    `gorm:"column:paciente_id"`
	Tipo               string    `gorm:"column:tipo"`
	Descricao          string    `gorm:"column:descricao"`
	MinutosAtraso      int       `gorm:"column:minutos_atraso"`
	DescontoPercentual int       `gorm:"column:desconto_percentual"`
	ValorDesconto      float64   `gorm:"column:valor_desconto"`
	RegistradoPor      string    `gorm:"column:registrado_por"`
	Resolvida          bool      `gorm:"column:resolvida"`
	Observacoes        string    `gorm:"column:observacoes"`
	CriadoEm           time.Time `gorm:"column:criado_em"`
	AtualizadoEm       time.Time `gorm:"column:atualizado_em"`
}

func (ocorrenciaModel) TableName() string {
	return "ocorrencias"
}

func (m ocorrenciaModel) toDomain() domain.Ocorrencia {
	return domain.Ocorrencia{
		ID:                 domain.OcorrenciaID(m.ID),
		AgendamentoID:      domain.AgendamentoID(m.AgendamentoID),
		PacienteID:         domain.PacienteID(m.PacienteID),
		Tipo:               domain.TipoOcorrencia(m.Tipo),
		Descricao:          m.Descricao,
		MinutosAtraso:      m.MinutosAtraso,
		DescontoPercentual: m.DescontoPercentual,
		ValorDesconto:      m.ValorDesconto,
		RegistradoPor:      domain.ProfissionalID(m.RegistradoPor),
		Resolvida:          m.Resolvida,
		Observacoes:        m.Observacoes,
		CriadoEm:           m.CriadoEm,
		AtualizadoEm:       m.AtualizadoEm,
	}
}

func fromDomainOcorrencia(o domain.Ocorrencia) ocorrenciaModel {
	return ocorrenciaModel{
		ID:                 string(o.ID),
		AgendamentoID:      string(o.AgendamentoID),
		PacienteID:         string(o.PacienteID),
		Tipo:               string(o.Tipo),
		Descricao:          o.Descricao,
		MinutosAtraso:      o.MinutosAtraso,
		DescontoPercentual: o.DescontoPercentual,
		ValorDesconto:      o.ValorDesconto,
		RegistradoPor:      string(o.RegistradoPor),
		Resolvida:          o.Resolvida,
		Observacoes:        o.Observacoes,
		CriadoEm:           o.CriadoEm,
		AtualizadoEm:       o.AtualizadoEm,
	}
}

func (r *OcorrenciaRepository) Create(ctx context.Context, o domain.Ocorrencia) error {
	model := fromDomainOcorrencia(o)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("gorm ocorrencias: inserir: %w", err)
	}
	return nil
}

func (r *OcorrenciaRepository) FindByID(ctx context.Context, id domain.OcorrenciaID) (domain.Ocorrencia, error) {
	var model ocorrenciaModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Ocorrencia{}, domain.ErrNotFound
		}
		return domain.Ocorrencia{}, fmt.Errorf("gorm ocorrencias: buscar id: %w", err)
	}
	return model.toDomain(), nil
}

// Update toca apenas os campos mutáveis; tipo, minutos e desconto são
// congelados no registro.
func (r *OcorrenciaRepository) Update(ctx context.Context, o domain.Ocorrencia) error {
	model := fromDomainOcorrencia(o)
	if err := r.db.WithContext(ctx).Model(&ocorrenciaModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"resolvida":     model.Resolvida,
			"observacoes":   model.Observacoes,
			"atualizado_em": model.AtualizadoEm,
		}).Error; err != nil {
		return fmt.Errorf("gorm ocorrencias: atualizar: %w", err)
	}
	return nil
}

func (r *OcorrenciaRepository) ListByAgendamento(ctx context.Context, id domain.AgendamentoID) ([]domain.Ocorrencia, error) {
	var models []ocorrenciaModel
	if err := r.db.WithContext(ctx).
		Where("agendamento_id = ?", string(id)).
		Order("criado_em ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm ocorrencias: listar agendamento: %w", err)
	}

	result := make([]domain.Ocorrencia, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

var _ domain.OcorrenciaRepository = (*OcorrenciaRepository)(nil)
