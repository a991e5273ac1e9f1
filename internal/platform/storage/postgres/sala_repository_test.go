package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/ids"
)

func setupPostgres(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Aplicar migrations no banco de teste
	err = db.AutoMigrate(
		&salaModel{},
		&alocacaoModel{},
		&atendimentoModel{},
		&evolucaoModel{},
		&ocorrenciaModel{},
		&alertaModel{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

func TestSalaRepository_FindByID_QuandoExiste_DeveRetornarSala(t *testing.T) {
	db := setupPostgres(t)
	repo := NewSalaRepository(db)

	ctx := context.Background()
	gen := ids.NewGenerator()

	// Arrange
	salaID := domain.SalaID(gen.New())
	now := time.Now()
	sala := domain.Sala{
		ID:                      salaID,
		Nome:                    "Sala Azul",
		Cor:                     "#1e90ff",
		Especialidade:           "fonoaudiologia",
		Unidade:                 "matriz",
		CapacidadeCriancas:      6,
		CapacidadeProfissionais: 2,
		Ativa:                   true,
		CriadoEm:                now,
		AtualizadoEm:            now,
	}
	require.NoError(t, repo.Create(ctx, sala))

	// Act
	encontrada, err := repo.FindByID(ctx, salaID)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, salaID, encontrada.ID)
	assert.Equal(t, "Sala Azul", encontrada.Nome)
	assert.Equal(t, 6, encontrada.CapacidadeCriancas)
	assert.Equal(t, 2, encontrada.CapacidadeProfissionais)
	assert.True(t, encontrada.Ativa)
}

func TestSalaRepository_FindByID_QuandoNaoExiste_DeveRetornarErrNotFound(t *testing.T) {
	db := setupPostgres(t)
	repo := NewSalaRepository(db)

	_, err := repo.FindByID(context.Background(), "inexistente")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSalaRepository_List_QuandoFiltrado_DeveAplicarFiltrosEOmitirInativas(t *testing.T) {
	db := setupPostgres(t)
	repo := NewSalaRepository(db)

	ctx := context.Background()
	gen := ids.NewGenerator()

	salas := []domain.Sala{
		{ID: domain.SalaID(gen.New()), Nome: "Fono Matriz", Especialidade: "fonoaudiologia", Unidade: "matriz", CapacidadeCriancas: 6, CapacidadeProfissionais: 2, Ativa: true},
		{ID: domain.SalaID(gen.New()), Nome: "Fono Filial", Especialidade: "fonoaudiologia", Unidade: "filial", CapacidadeCriancas: 4, CapacidadeProfissionais: 2, Ativa: true},
		{ID: domain.SalaID(gen.New()), Nome: "Fono Aposentada", Especialidade: "fonoaudiologia", Unidade: "matriz", CapacidadeCriancas: 4, CapacidadeProfissionais: 2, Ativa: false},
		{ID: domain.SalaID(gen.New()), Nome: "TO Matriz", Especialidade: "terapia_ocupacional", Unidade: "matriz", CapacidadeCriancas: 6, CapacidadeProfissionais: 3, Ativa: true},
	}
	for _, sala := range salas {
		require.NoError(t, repo.Create(ctx, sala))
	}

	lista, err := repo.List(ctx, "fonoaudiologia", "")
	require.NoError(t, err)
	assert.Len(t, lista, 2)

	lista, err = repo.List(ctx, "fonoaudiologia", "matriz")
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "Fono Matriz", lista[0].Nome)
}

func TestSalaRepository_Update_QuandoExiste_DevePersistirAlteracoes(t *testing.T) {
	db := setupPostgres(t)
	repo := NewSalaRepository(db)

	ctx := context.Background()
	gen := ids.NewGenerator()

	sala := domain.Sala{
		ID:                      domain.SalaID(gen.New()),
		Nome:                    "Sala Azul",
		CapacidadeCriancas:      6,
		CapacidadeProfissionais: 2,
		Ativa:                   true,
	}
	require.NoError(t, repo.Create(ctx, sala))

	sala.Nome = "Sala Verde"
	sala.Ativa = false
	require.NoError(t, repo.Update(ctx, sala))

	atual, err := repo.FindByID(ctx, sala.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sala Verde", atual.Nome)
	assert.False(t, atual.Ativa)
}
