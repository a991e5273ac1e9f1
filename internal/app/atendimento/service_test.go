package atendimento

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/ids"
)

func TestServicePagamentoSobeDeZeroACinquentaECem(t *testing.T) {
	deps := newServiceDeps()
	service := NewService(deps.atendimentoRepo, deps.ocorrenciaRepo, nil, nil, deps.clock, deps.idGen)

	ctx := context.Background()
	iniciado, err := service.Iniciar(ctx, deps.inicioPadrao())
	if err != nil {
		t.Fatalf("erro iniciando atendimento: %v", err)
	}
	if iniciado.PercentualPagamento != PercentualInicial || iniciado.PagamentoLiberado {
		t.Fatalf("atendimento deveria iniciar com pagamento zerado, veio %d%% liberado=%v",
			iniciado.PercentualPagamento, iniciado.PagamentoLiberado)
	}

	comEvolucao, err := service.RegistrarEvolucao(ctx, iniciado.ID, "prof-a", "paciente respondeu bem a sessao")
	if err != nil {
		t.Fatalf("erro registrando evolucao: %v", err)
	}
	if comEvolucao.PercentualPagamento != PercentualPosEvolucao {
		t.Fatalf("pos evolucao esperava %d%%, veio %d%%", PercentualPosEvolucao, comEvolucao.PercentualPagamento)
	}
	if comEvolucao.PagamentoLiberado {
		t.Fatal("pagamento integral nao deveria estar liberado antes da supervisao")
	}

	supervisionado, err := service.Supervisionar(ctx, iniciado.ID, "prof-supervisor", "aprovado")
	if err != nil {
		t.Fatalf("erro supervisionando: %v", err)
	}
	if supervisionado.PercentualPagamento != PercentualPosSupervisao {
		t.Fatalf("pos supervisao esperava %d%%, veio %d%%", PercentualPosSupervisao, supervisionado.PercentualPagamento)
	}
	if !supervisionado.PagamentoLiberado || !supervisionado.Supervisionado {
		t.Fatal("supervisao deveria liberar o pagamento integral")
	}
	if supervisionado.SupervisionadoPor == nil || *supervisionado.SupervisionadoPor != "prof-supervisor" {
		t.Fatalf("supervisor nao registrado: %v", supervisionado.SupervisionadoPor)
	}
}

func TestServiceSupervisionarSemEvolucaoFalha(t *testing.T) {
	deps := newServiceDeps()
	service := NewService(deps.atendimentoRepo, deps.ocorrenciaRepo, nil, nil, deps.clock, deps.idGen)

	ctx := context.Background()
	iniciado, err := service.Iniciar(ctx, deps.inicioPadrao())
	if err != nil {
		t.Fatalf("erro iniciando atendimento: %v", err)
	}

	_, err = service.Supervisionar(ctx, iniciado.ID, "prof-supervisor", "")
	if !errors.Is(err, ErrSemEvolucao) {
		t.Fatalf("supervisao sem evolucao deveria falhar com ErrSemEvolucao, veio: %v", err)
	}
	if !errors.Is(err, domain.ErrTransicaoInvalida) {
		t.Fatalf("erro deveria embrulhar ErrTransicaoInvalida, veio: %v", err)
	}

	atual, err := service.Buscar(ctx, iniciado.ID)
	if err != nil {
		t.Fatalf("erro relendo atendimento: %v", err)
	}
	if atual.PercentualPagamento != PercentualInicial {
		t.Fatalf("percentual nao deveria mudar na transicao rejeitada, veio %d%%", atual.PercentualPagamento)
	}
}

func TestServiceEvolucaoDuplicadaFalha(t *testing.T) {
	deps := newServiceDeps()
	service := NewService(deps.atendimentoRepo, deps.ocorrenciaRepo, nil, nil, deps.clock, deps.idGen)

	ctx := context.Background()
	iniciado, err := service.Iniciar(ctx, deps.inicioPadrao())
	if err != nil {
		t.Fatalf("erro iniciando atendimento: %v", err)
	}

	if _, err := service.RegistrarEvolucao(ctx, iniciado.ID, "prof-a", "primeira nota"); err != nil {
		t.Fatalf("primeira evolucao deveria passar, veio: %v", err)
	}
	_, err = service.RegistrarEvolucao(ctx, iniciado.ID, "prof-a", "segunda nota")
	if !errors.Is(err, ErrEvolucaoDuplicada) {
		t.Fatalf("segunda evolucao deveria falhar com ErrEvolucaoDuplicada, veio: %v", err)
	}
}

func TestServiceSupervisionarDuasVezesFalha(t *testing.T) {
	deps := newServiceDeps()
	service := NewService(deps.atendimentoRepo, deps.ocorrenciaRepo, nil, nil, deps.clock, deps.idGen)

	ctx := context.Background()
	iniciado, err := service.Iniciar(ctx, deps.inicioPadrao())
	if err != nil {
		t.Fatalf("erro iniciando atendimento: %v", err)
	}
	if _, err := service.RegistrarEvolucao(ctx, iniciado.ID, "prof-a", "nota"); err != nil {
		t.Fatalf("erro registrando evolucao: %v", err)
	}
	if _, err := service.Supervisionar(ctx, iniciado.ID, "prof-supervisor", ""); err != nil {
		t.Fatalf("primeira supervisao deveria passar, veio: %v", err)
	}

	_, err = service.Supervisionar(ctx, iniciado.ID, "prof-outro", "")
	if !errors.Is(err, ErrJaSupervisionado) {
		t.Fatalf("segunda supervisao deveria falhar com ErrJaSupervisionado, veio: %v", err)
	}
}

func TestServiceRegistrarPeriodosSomaDuracao(t *testing.T) {
	deps := newServiceDeps()
	service := NewService(deps.atendimentoRepo, deps.ocorrenciaRepo, nil, nil, deps.clock, deps.idGen)

	ctx := context.Background()
	iniciado, err := service.Iniciar(ctx, deps.inicioPadrao())
	if err != nil {
		t.Fatalf("erro iniciando atendimento: %v", err)
	}

	base := deps.clock.now
	periodo1 := domain.Periodo{Inicio: base, Fim: base.Add(25 * time.Minute)}
	periodo2 := domain.Periodo{Inicio: base.Add(40 * time.Minute), Fim: base.Add(60 * time.Minute)}

	atualizado, err := service.RegistrarPeriodos(ctx, iniciado.ID, periodo1, &periodo2)
	if err != nil {
		t.Fatalf("erro registrando periodos: %v", err)
	}
	if atualizado.DuracaoMinutos != 45 {
		t.Fatalf("duracao esperada 45 minutos (25+20), veio %d", atualizado.DuracaoMinutos)
	}
	if atualizado.HorarioFim == nil || !atualizado.HorarioFim.Equal(periodo2.Fim) {
		t.Fatalf("horario fim deveria ser o fim do segundo periodo: %v", atualizado.HorarioFim)
	}

	// Regravar só o primeiro período limpa o desdobramento anterior.
	atualizado, err = service.RegistrarPeriodos(ctx, iniciado.ID, periodo1, nil)
	if err != nil {
		t.Fatalf("erro regravando periodos: %v", err)
	}
	if atualizado.DuracaoMinutos != 25 {
		t.Fatalf("duracao esperada 25 minutos, veio %d", atualizado.DuracaoMinutos)
	}
	if atualizado.Periodo2Inicio != nil || atualizado.Periodo2Fim != nil {
		t.Fatal("segundo periodo deveria ter sido limpo")
	}
}

func TestServiceRegistrarPeriodosRejeitaLimitesInvalidos(t *testing.T) {
	deps := newServiceDeps()
	service := NewService(deps.atendimentoRepo, deps.ocorrenciaRepo, nil, nil, deps.clock, deps.idGen)

	ctx := context.Background()
	iniciado, err := service.Iniciar(ctx, deps.inicioPadrao())
	if err != nil {
		t.Fatalf("erro iniciando atendimento: %v", err)
	}

	base := deps.clock.now
	invertido := domain.Periodo{Inicio: base.Add(time.Hour), Fim: base}
	if _, err := service.RegistrarPeriodos(ctx, iniciado.ID, invertido, nil); !errors.Is(err, ErrPeriodosInvalidos) {
		t.Fatalf("periodo invertido deveria falhar, veio: %v", err)
	}

	periodo1 := domain.Periodo{Inicio: base, Fim: base.Add(30 * time.Minute)}
	sobreposto := domain.Periodo{Inicio: base.Add(10 * time.Minute), Fim: base.Add(50 * time.Minute)}
	if _, err := service.RegistrarPeriodos(ctx, iniciado.ID, periodo1, &sobreposto); !errors.Is(err, domain.ErrValidacao) {
		t.Fatalf("segundo periodo sobreposto deveria falhar com validacao, veio: %v", err)
	}
}

func TestServiceValorAPagarAplicaPercentualEDesconto(t *testing.T) {
	deps := newServiceDeps()
	service := NewService(deps.atendimentoRepo, deps.ocorrenciaRepo, nil, nil, deps.clock, deps.idGen)

	ctx := context.Background()
	inicio := deps.inicioPadrao()
	inicio.ValorSessao = 200
	iniciado, err := service.Iniciar(ctx, inicio)
	if err != nil {
		t.Fatalf("erro iniciando atendimento: %v", err)
	}

	// Pagamento ainda em 0%.
	valor, err := service.ValorAPagar(ctx, iniciado.ID)
	if err != nil {
		t.Fatalf("erro calculando valor: %v", err)
	}
	if valor != 0 {
		t.Fatalf("valor deveria ser 0 antes da evolucao, veio %.2f", valor)
	}

	if _, err := service.RegistrarEvolucao(ctx, iniciado.ID, "prof-a", "nota"); err != nil {
		t.Fatalf("erro registrando evolucao: %v", err)
	}
	if _, err := service.Supervisionar(ctx, iniciado.ID, "prof-supervisor", ""); err != nil {
		t.Fatalf("erro supervisionando: %v", err)
	}

	// Atraso de 20 minutos gera 25% de desconto sobre o valor liberado.
	deps.ocorrenciaRepo.seed(domain.Ocorrencia{
		ID:                 domain.OcorrenciaID(ids.NewULID()),
		AgendamentoID:      inicio.AgendamentoID,
		PacienteID:         inicio.PacienteID,
		Tipo:               domain.OcorrenciaAtraso,
		MinutosAtraso:      20,
		DescontoPercentual: domain.CalcularDescontoAtraso(20),
		RegistradoPor:      "prof-recepcao",
	})

	valor, err = service.ValorAPagar(ctx, iniciado.ID)
	if err != nil {
		t.Fatalf("erro calculando valor: %v", err)
	}
	if valor != 150 {
		t.Fatalf("esperava 200 * 100%% * 75%% = 150.00, veio %.2f", valor)
	}

	// Com duas ocorrências vale o maior desconto, não a soma.
	deps.ocorrenciaRepo.seed(domain.Ocorrencia{
		ID:                 domain.OcorrenciaID(ids.NewULID()),
		AgendamentoID:      inicio.AgendamentoID,
		PacienteID:         inicio.PacienteID,
		Tipo:               domain.OcorrenciaAtraso,
		MinutosAtraso:      45,
		DescontoPercentual: domain.CalcularDescontoAtraso(45),
		RegistradoPor:      "prof-recepcao",
	})

	valor, err = service.ValorAPagar(ctx, iniciado.ID)
	if err != nil {
		t.Fatalf("erro calculando valor: %v", err)
	}
	if valor != 100 {
		t.Fatalf("esperava 200 * 100%% * 50%% = 100.00, veio %.2f", valor)
	}
}

func TestServiceSupervisaoConcorrenteNaoDobraLiberacao(t *testing.T) {
	deps := newServiceDeps()
	service := NewService(deps.atendimentoRepo, deps.ocorrenciaRepo, nil, nil, deps.clock, deps.idGen)

	ctx := context.Background()
	iniciado, err := service.Iniciar(ctx, deps.inicioPadrao())
	if err != nil {
		t.Fatalf("erro iniciando atendimento: %v", err)
	}
	if _, err := service.RegistrarEvolucao(ctx, iniciado.ID, "prof-a", "nota"); err != nil {
		t.Fatalf("erro registrando evolucao: %v", err)
	}

	var wg sync.WaitGroup
	erros := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, erros[n] = service.Supervisionar(ctx, iniciado.ID, domain.ProfissionalID(ids.NewULID()), "")
		}(i)
	}
	wg.Wait()

	sucesso := 0
	for _, err := range erros {
		switch {
		case err == nil:
			sucesso++
		case errors.Is(err, domain.ErrConflito), errors.Is(err, ErrJaSupervisionado):
		default:
			t.Fatalf("erro inesperado em supervisao concorrente: %v", err)
		}
	}
	if sucesso != 1 {
		t.Fatalf("exatamente um supervisor deveria vencer, venceram %d", sucesso)
	}
}

func TestServiceListarPendentesSupervisaoOrdenaPorInicio(t *testing.T) {
	deps := newServiceDeps()
	service := NewService(deps.atendimentoRepo, deps.ocorrenciaRepo, nil, nil, deps.clock, deps.idGen)

	ctx := context.Background()
	base := deps.clock.now

	var ids3 []domain.AtendimentoID
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		inicio := deps.inicioPadrao()
		inicio.AgendamentoID = domain.AgendamentoID(ids.NewULID())
		inicio.HorarioInicio = base.Add(offset)
		a, err := service.Iniciar(ctx, inicio)
		if err != nil {
			t.Fatalf("erro iniciando atendimento: %v", err)
		}
		if _, err := service.RegistrarEvolucao(ctx, a.ID, "prof-a", "nota"); err != nil {
			t.Fatalf("erro registrando evolucao: %v", err)
		}
		ids3 = append(ids3, a.ID)
	}

	// O primeiro da lista já supervisionado fica de fora.
	if _, err := service.Supervisionar(ctx, ids3[0], "prof-supervisor", ""); err != nil {
		t.Fatalf("erro supervisionando: %v", err)
	}

	pendentes, err := service.ListarPendentesSupervisao(ctx, base.Add(-time.Hour), base.Add(24*time.Hour), "")
	if err != nil {
		t.Fatalf("erro listando pendentes: %v", err)
	}
	if len(pendentes) != 2 {
		t.Fatalf("esperava 2 pendentes, veio %d", len(pendentes))
	}
	if !pendentes[0].HorarioInicio.Before(pendentes[1].HorarioInicio) {
		t.Fatal("pendentes deveriam vir ordenados do mais antigo para o mais novo")
	}

	if _, err := service.ListarPendentesSupervisao(ctx, base, base.Add(-time.Hour), ""); !errors.Is(err, domain.ErrValidacao) {
		t.Fatalf("intervalo invertido deveria falhar com validacao, veio: %v", err)
	}
}

type serviceDependencies struct {
	atendimentoRepo *inMemoryAtendimentoRepo
	ocorrenciaRepo  *inMemoryOcorrenciaRepo
	clock           *staticClock
	idGen           *ids.Generator
}

func newServiceDeps() serviceDependencies {
	return serviceDependencies{
		atendimentoRepo: newInMemoryAtendimentoRepo(),
		ocorrenciaRepo:  newInMemoryOcorrenciaRepo(),
		clock:           &staticClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
		idGen:           ids.NewGenerator(),
	}
}

func (d serviceDependencies) inicioPadrao() Inicio {
	return Inicio{
		AgendamentoID:  domain.AgendamentoID(ids.NewULID()),
		ProfissionalID: "prof-a",
		SalaID:         "sala-azul",
		PacienteID:     "paciente-1",
		ValorSessao:    120,
		HorarioInicio:  d.clock.now,
	}
}

type staticClock struct {
	now time.Time
}

func (c *staticClock) Agora() time.Time {
	return c.now
}

type inMemoryAtendimentoRepo struct {
	mu        sync.Mutex
	data      map[domain.AtendimentoID]domain.Atendimento
	evolucoes map[domain.AtendimentoID]domain.Evolucao
}

func newInMemoryAtendimentoRepo() *inMemoryAtendimentoRepo {
	return &inMemoryAtendimentoRepo{
		data:      make(map[domain.AtendimentoID]domain.Atendimento),
		evolucoes: make(map[domain.AtendimentoID]domain.Evolucao),
	}
}

func (r *inMemoryAtendimentoRepo) Create(_ context.Context, a domain.Atendimento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[a.ID] = a
	return nil
}

func (r *inMemoryAtendimentoRepo) FindByID(_ context.Context, id domain.AtendimentoID) (domain.Atendimento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return domain.Atendimento{}, domain.ErrNotFound
	}
	return a, nil
}

func (r *inMemoryAtendimentoRepo) UpdateVersioned(_ context.Context, a domain.Atendimento, versaoEsperada int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	atual, ok := r.data[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if atual.Versao != versaoEsperada {
		return domain.ErrConflito
	}
	a.Versao = versaoEsperada + 1
	r.data[a.ID] = a
	return nil
}

func (r *inMemoryAtendimentoRepo) ListPendentesSupervisao(_ context.Context, inicio, fim time.Time, profissionalID domain.ProfissionalID) ([]domain.Atendimento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Atendimento
	for _, a := range r.data {
		if !a.EvolucaoFeita || a.Supervisionado {
			continue
		}
		if a.HorarioInicio.Before(inicio) || a.HorarioInicio.After(fim) {
			continue
		}
		if profissionalID != "" && a.ProfissionalID != profissionalID {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].HorarioInicio.Before(result[j].HorarioInicio)
	})
	return result, nil
}

func (r *inMemoryAtendimentoRepo) CountPorSalaTurno(_ context.Context, salaID domain.SalaID, data time.Time, turno domain.Turno) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, a := range r.data {
		if a.SalaID != salaID {
			continue
		}
		y1, m1, d1 := a.HorarioInicio.Date()
		y2, m2, d2 := data.Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			continue
		}
		if domain.TurnoDoHorario(a.HorarioInicio).Cobre(turno) {
			total++
		}
	}
	return total, nil
}

func (r *inMemoryAtendimentoRepo) CreateEvolucao(_ context.Context, e domain.Evolucao) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.evolucoes[e.AtendimentoID]; ok {
		return domain.ErrConflito
	}
	r.evolucoes[e.AtendimentoID] = e
	return nil
}

func (r *inMemoryAtendimentoRepo) FindEvolucaoByAtendimento(_ context.Context, id domain.AtendimentoID) (domain.Evolucao, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.evolucoes[id]
	if !ok {
		return domain.Evolucao{}, domain.ErrNotFound
	}
	return e, nil
}

type inMemoryOcorrenciaRepo struct {
	mu   sync.Mutex
	data map[domain.OcorrenciaID]domain.Ocorrencia
}

func newInMemoryOcorrenciaRepo() *inMemoryOcorrenciaRepo {
	return &inMemoryOcorrenciaRepo{data: make(map[domain.OcorrenciaID]domain.Ocorrencia)}
}

func (r *inMemoryOcorrenciaRepo) seed(o domain.Ocorrencia) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[o.ID] = o
}

func (r *inMemoryOcorrenciaRepo) Create(_ context.Context, o domain.Ocorrencia) error {
	r.seed(o)
	return nil
}

func (r *inMemoryOcorrenciaRepo) FindByID(_ context.Context, id domain.OcorrenciaID) (domain.Ocorrencia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.data[id]
	if !ok {
		return domain.Ocorrencia{}, domain.ErrNotFound
	}
	return o, nil
}

func (r *inMemoryOcorrenciaRepo) Update(_ context.Context, o domain.Ocorrencia) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[o.ID]; !ok {
		return domain.ErrNotFound
	}
	r.data[o.ID] = o
	return nil
}

func (r *inMemoryOcorrenciaRepo) ListByAgendamento(_ context.Context, id domain.AgendamentoID) ([]domain.Ocorrencia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ocorrencia
	for _, o := range r.data {
		if o.AgendamentoID == id {
			result = append(result, o)
		}
	}
	return result, nil
}
