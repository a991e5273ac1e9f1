package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
)

// AlertaRepository persiste os alertas de ocupação e o estado de envio.
type AlertaRepository struct {
	db *gorm.DB
}

func NewAlertaRepository(db *gorm.DB) *AlertaRepository {
	return &AlertaRepository{db: db}
}

type alertaModel struct {
	ID                    string     `gorm:"column:id;primaryKey"`
	SalaID                string     `gorm:"column:sala_id;index"`
	Data                  time.Time  `gorm:"column:data"`
	Turno                 string     `gorm:"column:turno"`
	OcupacaoCriancas      int        `gorm:"column:ocupacao_criancas"`
	OcupacaoProfissionais int        `gorm:"column:ocupacao_profissionais"`
	PercentualOcupacao    int        `gorm:"column:percentual_ocupacao"`
	Destinatarios         string     `gorm:"column:destinatarios"`
	Enviado               bool       `gorm:"column:enviado"`
	EnviadoEm             *time.Time `gorm:"column:enviado_em"`
	CriadoEm              time.Time  `gorm:"column:criado_em"`
}

func (alertaModel) TableName() string {
	return "alertas_ocupacao"
}

func (m alertaModel) toDomain() domain.AlertaOcupacao {
	return domain.AlertaOcupacao{
		ID:                    domain.AlertaID(m.ID),
		SalaID:                domain.SalaID(m.SalaID),
		Data:                  m.Data,
		Turno:                 domain.Turno(m.Turno),
		OcupacaoCriancas:      m.OcupacaoCriancas,
		OcupacaoProfissionais: m.OcupacaoProfissionais,
		PercentualOcupacao:    m.PercentualOcupacao,
		Destinatarios:         m.Destinatarios,
		Enviado:               m.Enviado,
		EnviadoEm:             m.EnviadoEm,
		CriadoEm:              m.CriadoEm,
	}
}

func fromDomainAlerta(a domain.AlertaOcupacao) alertaModel {
	return alertaModel{
		ID:                    string(a.ID),
		SalaID:                string(a.SalaID),
		Data:                  a.Data,
		Turno:                 string(a.Turno),
		OcupacaoCriancas:      a.OcupacaoCriancas,
		OcupacaoProfissionais: a.OcupacaoProfissionais,
		PercentualOcupacao:    a.PercentualOcupacao,
		Destinatarios:         a.Destinatarios,
		Enviado:               a.Enviado,
		EnviadoEm:             a.EnviadoEm,
		CriadoEm:              a.CriadoEm,
	}
}

func (r *AlertaRepository) Create(ctx context.Context, a domain.AlertaOcupacao) error {
	model := fromDomainAlerta(a)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("gorm alertas: inserir: %w", err)
	}
	return nil
}

func (r *AlertaRepository) FindByID(ctx context.Context, id domain.AlertaID) (domain.AlertaOcupacao, error) {
	var model alertaModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AlertaOcupacao{}, domain.ErrNotFound
		}
		return domain.AlertaOcupacao{}, fmt.Errorf("gorm alertas: buscar id: %w", err)
	}
	return model.toDomain(), nil
}

func (r *AlertaRepository) ExisteParaTupla(ctx context.Context, salaID domain.SalaID, data time.Time, turno domain.Turno) (bool, error) {
	inicioDia := time.Date(data.Year(), data.Month(), data.Day(), 0, 0, 0, 0, data.Location())
	fimDia := inicioDia.Add(24 * time.Hour)

	var total int64
	if err := r.db.WithContext(ctx).Model(&alertaModel{}).
		Where("sala_id = ? AND turno = ?", string(salaID), string(turno)).
		Where("data >= ? AND data < ?", inicioDia, fimDia).
		Count(&total).Error; err != nil {
		return false, fmt.Errorf("gorm alertas: verificar tupla: %w", err)
	}
	return total > 0, nil
}

func (r *AlertaRepository) MarcarEnviado(ctx context.Context, id domain.AlertaID, quando time.Time) error {
	res := r.db.WithContext(ctx).Model(&alertaModel{}).
		Where("id = ?", string(id)).
		Updates(map[string]any{
			"enviado":    true,
			"enviado_em": quando,
		})
	if res.Error != nil {
		return fmt.Errorf("gorm alertas: marcar enviado: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.AlertaRepository = (*AlertaRepository)(nil)
