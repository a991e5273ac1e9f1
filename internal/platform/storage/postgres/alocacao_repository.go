package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
)

// AlocacaoRepository guarda as alocações de profissionais e aplica o limite de
// capacidade da sala dentro de uma única transação.
type AlocacaoRepository struct {
	db *gorm.DB
}

func NewAlocacaoRepository(db *gorm.DB) *AlocacaoRepository {
	return &AlocacaoRepository{db: db}
}

type alocacaoModel struct {
	ID             string     `gorm:"column:id;primaryKey"`
	SalaID         string     `gorm:"column:sala_id;index"`
	ProfissionalID string     `gorm:"column:profissional_id;index"`
	Turno          string     `gorm:"column:turno"`
	DataInicio     time.Time  `gorm:"column:data_inicio"`
	DataFim        *time.Time `gorm:"column:data_fim"`
	Ativa          bool       `gorm:"column:ativa"`
	CriadoEm       time.Time  `gorm:"column:criado_em"`
	AtualizadoEm   time.Time  `gorm:"column:atualizado_em"`
}

func (alocacaoModel) TableName() string {
	return "alocacoes"
}

func (m alocacaoModel) toDomain() domain.Alocacao {
	return domain.Alocacao{
		ID:             domain.AlocacaoID(m.ID),
		SalaID:         domain.SalaID(m.SalaID),
		ProfissionalID: domain.ProfissionalID(m.ProfissionalID),
		Turno:          domain.Turno(m.Turno),
		DataInicio:     m.DataInicio,
		DataFim:        m.DataFim,
		Ativa:          m.Ativa,
		CriadoEm:       m.CriadoEm,
		AtualizadoEm:   m.AtualizadoEm,
	}
}

func fromDomainAlocacao(a domain.Alocacao) alocacaoModel {
	return alocacaoModel{
		ID:             string(a.ID),
		SalaID:         string(a.SalaID),
		ProfissionalID: string(a.ProfissionalID),
		Turno:          string(a.Turno),
		DataInicio:     a.DataInicio,
		DataFim:        a.DataFim,
		Ativa:          a.Ativa,
		CriadoEm:       a.CriadoEm,
		AtualizadoEm:   a.AtualizadoEm,
	}
}

// CriarComCapacidade executa contagem e inserção numa transação serializável,
// fechando a janela entre o check e o insert sob chamadas concorrentes.
func (r *AlocacaoRepository) CriarComCapacidade(ctx context.Context, a domain.Alocacao, capacidade int) error {
	model := fromDomainAlocacao(a)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ativas int64
		if err := contarAtivas(tx, a.SalaID, a.Turno, a.DataInicio, &ativas); err != nil {
			return err
		}
		if ativas >= int64(capacidade) {
			return domain.ErrCapacidadeExcedida
		}
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("gorm alocacoes: inserir: %w", err)
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	return err
}

// Encerrar é idempotente: alocação já inativa é devolvida sem alterações.
func (r *AlocacaoRepository) Encerrar(ctx context.Context, id domain.AlocacaoID, dataFim time.Time) (domain.Alocacao, error) {
	var model alocacaoModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("gorm alocacoes: buscar id: %w", err)
		}

		if !model.Ativa {
			return nil
		}

		model.Ativa = false
		model.DataFim = &dataFim
		if err := tx.Model(&alocacaoModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]any{
				"ativa":    false,
				"data_fim": dataFim,
			}).Error; err != nil {
			return fmt.Errorf("gorm alocacoes: encerrar: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Alocacao{}, err
	}

	return model.toDomain(), nil
}

func (r *AlocacaoRepository) FindByID(ctx context.Context, id domain.AlocacaoID) (domain.Alocacao, error) {
	var model alocacaoModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Alocacao{}, domain.ErrNotFound
		}
		return domain.Alocacao{}, fmt.Errorf("gorm alocacoes: buscar id: %w", err)
	}
	return model.toDomain(), nil
}

func (r *AlocacaoRepository) ListAtivas(ctx context.Context, salaID domain.SalaID, turno domain.Turno, referencia time.Time) ([]domain.Alocacao, error) {
	query := r.db.WithContext(ctx).
		Where("sala_id = ? AND ativa = ?", string(salaID), true).
		Where("data_inicio <= ?", referencia).
		Where("data_fim IS NULL OR data_fim >= ?", referencia)
	if turno != "" {
		query = aplicarFiltroTurno(query, turno)
	}

	var models []alocacaoModel
	if err := query.Order("data_inicio ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm alocacoes: listar ativas: %w", err)
	}

	result := make([]domain.Alocacao, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

func (r *AlocacaoRepository) CountAtivas(ctx context.Context, salaID domain.SalaID, turno domain.Turno, referencia time.Time) (int64, error) {
	var total int64
	if err := contarAtivas(r.db.WithContext(ctx), salaID, turno, referencia, &total); err != nil {
		return 0, err
	}
	return total, nil
}

func contarAtivas(tx *gorm.DB, salaID domain.SalaID, turno domain.Turno, referencia time.Time, total *int64) error {
	query := tx.Model(&alocacaoModel{}).
		Where("sala_id = ? AND ativa = ?", string(salaID), true).
		Where("data_inicio <= ?", referencia).
		Where("data_fim IS NULL OR data_fim >= ?", referencia)
	query = aplicarFiltroTurno(query, turno)

	if err := query.Count(total).Error; err != nil {
		return fmt.Errorf("gorm alocacoes: contar ativas: %w", err)
	}
	return nil
}

func aplicarFiltroTurno(query *gorm.DB, turno domain.Turno) *gorm.DB {
	// O turno integral concorre com todos os demais turnos do dia.
	if turno == domain.TurnoIntegral {
		return query
	}
	return query.Where("turno IN ?", []string{string(turno), string(domain.TurnoIntegral)})
}

var _ domain.AlocacaoRepository = (*AlocacaoRepository)(nil)
