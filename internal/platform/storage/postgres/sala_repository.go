package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
)

// SalaRepository mapeia o diretório de salas para tabelas GORM.
type SalaRepository struct {
	db *gorm.DB
}

func NewSalaRepository(db *gorm.DB) *SalaRepository {
	return &SalaRepository{db: db}
}

type salaModel struct {
	ID                      string    `gorm:"column:id;primaryKey"`
	Nome                    string    `gorm:"column:nome"`
	Cor                     string    `gorm:"column:cor"`
	Especialidade           string    `gorm:"column:especialidade"`
	Unidade                 string    `gorm:"column:unidade"`
	CapacidadeCriancas      int       `gorm:"column:capacidade_criancas"`
	CapacidadeProfissionais int       `gorm:"column:capacidade_profissionais"`
	Ativa                   bool      `gorm:"column:ativa"`
	CriadoEm                time.Time `gorm:"column:criado_em"`
	AtualizadoEm            time.Time `gorm:"column:atualizado_em"`
}

func (salaModel) TableName() string {
	return "salas"
}

func (m salaModel) toDomain() domain.Sala {
	return domain.Sala{
		ID:                      domain.SalaID(m.ID),
		Nome:                    m.Nome,
		Cor:                     m.Cor,
		Especialidade:           m.Especialidade,
		Unidade:                 m.Unidade,
		CapacidadeCriancas:      m.CapacidadeCriancas,
		CapacidadeProfissionais: m.CapacidadeProfissionais,
		Ativa:                   m.Ativa,
		CriadoEm:                m.CriadoEm,
		AtualizadoEm:            m.AtualizadoEm,
	}
}

func fromDomainSala(s domain.Sala) salaModel {
	return salaModel{
		ID:                      string(s.ID),
		Nome:                    s.Nome,
		Cor:                     s.Cor,
		Especialidade:           s.Especialidade,
		Unidade:                 s.Unidade,
		CapacidadeCriancas:      s.CapacidadeCriancas,
		CapacidadeProfissionais: s.CapacidadeProfissionais,
		Ativa:                   s.Ativa,
		CriadoEm:                s.CriadoEm,
		AtualizadoEm:            s.AtualizadoEm,
	}
}

func (r *SalaRepository) Create(ctx context.Context, s domain.Sala) error {
	model := fromDomainSala(s)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("gorm salas: inserir: %w", err)
	}
	return nil
}

func (r *SalaRepository) Update(ctx context.Context, s domain.Sala) error {
	model := fromDomainSala(s)
	if err := r.db.WithContext(ctx).Model(&salaModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"nome":                     model.Nome,
			"cor":                      model.Cor,
			"especialidade":            model.Especialidade,
			"unidade":                  model.Unidade,
			"capacidade_criancas":      model.CapacidadeCriancas,
			"capacidade_profissionais": model.CapacidadeProfissionais,
			"ativa":                    model.Ativa,
			"atualizado_em":            model.AtualizadoEm,
		}).Error; err != nil {
		return fmt.Errorf("gorm salas: atualizar: %w", err)
	}
	return nil
}

func (r *SalaRepository) FindByID(ctx context.Context, id domain.SalaID) (domain.Sala, error) {
	var model salaModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Sala{}, domain.ErrNotFound
		}
		return domain.Sala{}, fmt.Errorf("gorm salas: buscar id: %w", err)
	}
	return model.toDomain(), nil
}

func (r *SalaRepository) List(ctx context.Context, especialidade, unidade string) ([]domain.Sala, error) {
	query := r.db.WithContext(ctx).Where("ativa = ?", true)
	if especialidade != "" {
		query = query.Where("especialidade = ?", especialidade)
	}
	if unidade != "" {
		query = query.Where("unidade = ?", unidade)
	}

	var models []salaModel
	if err := query.Order("nome ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm salas: listar: %w", err)
	}

	result := make([]domain.Sala, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

var _ domain.SalaRepository = (*SalaRepository)(nil)
