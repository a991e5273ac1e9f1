package salas

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/ids"
)

func TestServiceCriarSalaValidaCampos(t *testing.T) {
	service := newService()
	ctx := context.Background()

	_, err := service.CriarSala(ctx, domain.Sala{Nome: "  ", CapacidadeCriancas: 6, CapacidadeProfissionais: 2})
	if !errors.Is(err, domain.ErrValidacao) {
		t.Fatalf("nome em branco deveria falhar com validacao, veio: %v", err)
	}

	_, err = service.CriarSala(ctx, domain.Sala{Nome: "Sala Azul", CapacidadeCriancas: 0, CapacidadeProfissionais: 2})
	if !errors.Is(err, domain.ErrValidacao) {
		t.Fatalf("capacidade zero deveria falhar com validacao, veio: %v", err)
	}

	criada, err := service.CriarSala(ctx, domain.Sala{
		Nome:                    "Sala Azul",
		Cor:                     "#1e90ff",
		Especialidade:           "fonoaudiologia",
		Unidade:                 "matriz",
		CapacidadeCriancas:      6,
		CapacidadeProfissionais: 2,
	})
	if err != nil {
		t.Fatalf("erro criando sala: %v", err)
	}
	if criada.ID == "" {
		t.Fatal("sala criada deveria receber id")
	}
	if !criada.Ativa {
		t.Fatal("sala criada deveria nascer ativa")
	}
}

func TestServiceAtualizarSalaAplicaSomentePatch(t *testing.T) {
	service := newService()
	ctx := context.Background()

	criada, err := service.CriarSala(ctx, domain.Sala{Nome: "Sala Azul", CapacidadeCriancas: 6, CapacidadeProfissionais: 2})
	if err != nil {
		t.Fatalf("erro criando sala: %v", err)
	}

	novoNome := "Sala Verde"
	novaCapacidade := 8
	atualizada, err := service.AtualizarSala(ctx, criada.ID, Patch{
		Nome:               &novoNome,
		CapacidadeCriancas: &novaCapacidade,
	})
	if err != nil {
		t.Fatalf("erro atualizando sala: %v", err)
	}
	if atualizada.Nome != novoNome || atualizada.CapacidadeCriancas != novaCapacidade {
		t.Fatalf("patch nao aplicado: %+v", atualizada)
	}
	if atualizada.CapacidadeProfissionais != 2 {
		t.Fatalf("campo fora do patch nao deveria mudar, veio %d", atualizada.CapacidadeProfissionais)
	}

	invalida := 0
	if _, err := service.AtualizarSala(ctx, criada.ID, Patch{CapacidadeCriancas: &invalida}); !errors.Is(err, domain.ErrValidacao) {
		t.Fatalf("capacidade zero no patch deveria falhar, veio: %v", err)
	}

	if _, err := service.AtualizarSala(ctx, "sala-inexistente", Patch{Nome: &novoNome}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("sala inexistente deveria falhar com not found, veio: %v", err)
	}
}

func TestServiceDesativarSalaEhIdempotente(t *testing.T) {
	service := newService()
	ctx := context.Background()

	criada, err := service.CriarSala(ctx, domain.Sala{Nome: "Sala Azul", CapacidadeCriancas: 6, CapacidadeProfissionais: 2})
	if err != nil {
		t.Fatalf("erro criando sala: %v", err)
	}

	desativada, err := service.DesativarSala(ctx, criada.ID)
	if err != nil {
		t.Fatalf("erro desativando sala: %v", err)
	}
	if desativada.Ativa {
		t.Fatal("sala deveria estar inativa")
	}

	deNovo, err := service.DesativarSala(ctx, criada.ID)
	if err != nil {
		t.Fatalf("desativar de novo deveria ser no-op sem erro, veio: %v", err)
	}
	if deNovo.Ativa {
		t.Fatal("sala deveria permanecer inativa")
	}

	// Sala aposentada sai da listagem mas continua acessível por id.
	lista, err := service.ListarSalas(ctx, "", "")
	if err != nil {
		t.Fatalf("erro listando salas: %v", err)
	}
	if len(lista) != 0 {
		t.Fatalf("sala aposentada nao deveria aparecer na listagem, veio %d", len(lista))
	}
	if _, err := service.BuscarSala(ctx, criada.ID); err != nil {
		t.Fatalf("sala aposentada deveria continuar acessivel por id, veio: %v", err)
	}
}

func TestServiceListarSalasFiltra(t *testing.T) {
	service := newService()
	ctx := context.Background()

	entradas := []domain.Sala{
		{Nome: "Fono Matriz", Especialidade: "fonoaudiologia", Unidade: "matriz", CapacidadeCriancas: 6, CapacidadeProfissionais: 2},
		{Nome: "Fono Filial", Especialidade: "fonoaudiologia", Unidade: "filial", CapacidadeCriancas: 4, CapacidadeProfissionais: 2},
		{Nome: "TO Matriz", Especialidade: "terapia_ocupacional", Unidade: "matriz", CapacidadeCriancas: 6, CapacidadeProfissionais: 3},
	}
	for _, sala := range entradas {
		if _, err := service.CriarSala(ctx, sala); err != nil {
			t.Fatalf("erro criando sala %q: %v", sala.Nome, err)
		}
	}

	lista, err := service.ListarSalas(ctx, "fonoaudiologia", "")
	if err != nil {
		t.Fatalf("erro listando salas: %v", err)
	}
	if len(lista) != 2 {
		t.Fatalf("esperava 2 salas de fonoaudiologia, veio %d", len(lista))
	}

	lista, err = service.ListarSalas(ctx, "fonoaudiologia", "matriz")
	if err != nil {
		t.Fatalf("erro listando salas: %v", err)
	}
	if len(lista) != 1 || lista[0].Nome != "Fono Matriz" {
		t.Fatalf("filtro combinado errado: %+v", lista)
	}
}

func newService() *Service {
	clock := &staticClock{now: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)}
	return NewService(newInMemorySalaRepo(), clock, ids.NewGenerator())
}

type staticClock struct {
	now time.Time
}

func (c *staticClock) Agora() time.Time {
	return c.now
}

type inMemorySalaRepo struct {
	mu   sync.Mutex
	data map[domain.SalaID]domain.Sala
}

func newInMemorySalaRepo() *inMemorySalaRepo {
	return &inMemorySalaRepo{data: make(map[domain.SalaID]domain.Sala)}
}

func (r *inMemorySalaRepo) Create(_ context.Context, s domain.Sala) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[s.ID] = s
	return nil
}

func (r *inMemorySalaRepo) Update(_ context.Context, s domain.Sala) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[s.ID]; !ok {
		return domain.ErrNotFound
	}
	r.data[s.ID] = s
	return nil
}

func (r *inMemorySalaRepo) FindByID(_ context.Context, id domain.SalaID) (domain.Sala, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.data[id]
	if !ok {
		return domain.Sala{}, domain.ErrNotFound
	}
	return s, nil
}

func (r *inMemorySalaRepo) List(_ context.Context, especialidade, unidade string) ([]domain.Sala, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Sala
	for _, s := range r.data {
		if !s.Ativa {
			continue
		}
		if especialidade != "" && s.Especialidade != especialidade {
			continue
		}
		if unidade != "" && s.Unidade != unidade {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}
