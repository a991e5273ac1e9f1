// Pacote httpapi expõe os handlers REST e traduz requisições HTTP para os serviços do módulo terapêutico.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vidaplena/modulo-terapeutico/internal/app/alocacao"
	"github.com/vidaplena/modulo-terapeutico/internal/app/atendimento"
	"github.com/vidaplena/modulo-terapeutico/internal/app/ocorrencia"
	"github.com/vidaplena/modulo-terapeutico/internal/app/ocupacao"
	"github.com/vidaplena/modulo-terapeutico/internal/app/salas"
	"github.com/vidaplena/modulo-terapeutico/internal/domain"
)

// API empacota os handlers HTTP ligados aos serviços de domínio e ao logger.
type API struct {
	salas        *salas.Service
	alocacoes    *alocacao.Service
	atendimentos *atendimento.Service
	ocorrencias  *ocorrencia.Service
	ocupacao     *ocupacao.Service
	logger       *slog.Logger
	validate     *validator.Validate
}

func New(
	salasSvc *salas.Service,
	alocacoesSvc *alocacao.Service,
	atendimentosSvc *atendimento.Service,
	ocorrenciasSvc *ocorrencia.Service,
	ocupacaoSvc *ocupacao.Service,
	logger *slog.Logger,
) *API {
	return &API{
		salas:        salasSvc,
		alocacoes:    alocacoesSvc,
		atendimentos: atendimentosSvc,
		ocorrencias:  ocorrenciasSvc,
		ocupacao:     ocupacaoSvc,
		logger:       logger,
		validate:     validator.New(),
	}
}

func (a *API) Register(mux *http.ServeMux) {
	// Mantemos as rotas centralizadas para facilitar testes e reuso em servidores diferentes.
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/salas", a.handleSalas)
	mux.HandleFunc("/salas/", a.handleSalaDetalhes)
	mux.HandleFunc("/alocacoes", a.handleAlocacoes)
	mux.HandleFunc("/alocacoes/", a.handleAlocacaoDetalhes)
	mux.HandleFunc("/atendimentos", a.handleAtendimentos)
	mux.HandleFunc("/atendimentos/", a.handleAtendimentoDetalhes)
	mux.HandleFunc("/supervisoes/pendentes", a.listarPendentesSupervisao)
	mux.HandleFunc("/ocorrencias", a.handleOcorrencias)
	mux.HandleFunc("/ocorrencias/", a.handleOcorrenciaDetalhes)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// === Salas ===

func (a *API) handleSalas(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listarSalas(w, r)
	case http.MethodPost:
		a.criarSala(w, r)
	default:
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
	}
}

func (a *API) handleSalaDetalhes(w http.ResponseWriter, r *http.Request) {
	partes := pathParts(r.URL.Path, "/salas/")
	if len(partes) == 0 {
		http.NotFound(w, r)
		return
	}

	id := domain.SalaID(partes[0])

	switch {
	case len(partes) == 1 && r.Method == http.MethodGet:
		a.buscarSala(w, r, id)
	case len(partes) == 1 && r.Method == http.MethodPatch:
		a.atualizarSala(w, r, id)
	case len(partes) == 1 && r.Method == http.MethodDelete:
		a.desativarSala(w, r, id)
	case len(partes) == 2 && partes[1] == "alocacoes" && r.Method == http.MethodGet:
		a.listarAlocacoes(w, r, id)
	case len(partes) == 2 && partes[1] == "ocupacao" && r.Method == http.MethodGet:
		a.obterOcupacao(w, r, id)
	case len(partes) == 3 && partes[1] == "ocupacao" && partes[2] == "avaliar" && r.Method == http.MethodPost:
		a.avaliarAlerta(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

type salaRequest struct {
	Nome                    string `json:"nome" validate:"required"`
	Cor                     string `json:"cor"`
	Especialidade           string `json:"especialidade"`
	Unidade                 string `json:"unidade"`
	CapacidadeCriancas      int    `json:"capacidade_criancas" validate:"gt=0"`
	CapacidadeProfissionais int    `json:"capacidade_profissionais" validate:"gt=0"`
}

func (a *API) criarSala(w http.ResponseWriter, r *http.Request) {
	var req salaRequest
	if !a.decodificar(w, r, &req) {
		return
	}

	sala, err := a.salas.CriarSala(r.Context(), domain.Sala{
		Nome:                    req.Nome,
		Cor:                     req.Cor,
		Especialidade:           req.Especialidade,
		Unidade:                 req.Unidade,
		CapacidadeCriancas:      req.CapacidadeCriancas,
		CapacidadeProfissionais: req.CapacidadeProfissionais,
	})
	if err != nil {
		a.logger.Warn("falha ao criar sala", "err", err)
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusCreated, sala)
}

func (a *API) listarSalas(w http.ResponseWriter, r *http.Request) {
	resultado, err := a.salas.ListarSalas(r.Context(), r.URL.Query().Get("especialidade"), r.URL.Query().Get("unidade"))
	if err != nil {
		a.logger.Error("erro ao listar salas", "err", err)
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusOK, resultado)
}

func (a *API) buscarSala(w http.ResponseWriter, r *http.Request, id domain.SalaID) {
	sala, err := a.salas.BuscarSala(r.Context(), id)
	if err != nil {
		responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, sala)
}

type salaPatchRequest struct {
	Nome                    *string `json:"nome"`
	Cor                     *string `json:"cor"`
	Especialidade           *string `json:"especialidade"`
	Unidade                 *string `json:"unidade"`
	CapacidadeCriancas      *int    `json:"capacidade_criancas"`
	CapacidadeProfissionais *int    `json:"capacidade_profissionais"`
}

func (a *API) atualizarSala(w http.ResponseWriter, r *http.Request, id domain.SalaID) {
	var req salaPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload invalido", http.StatusBadRequest)
		return
	}

	sala, err := a.salas.AtualizarSala(r.Context(), id, salas.Patch{
		Nome:                    req.Nome,
		Cor:                     req.Cor,
		Especialidade:           req.Especialidade,
		Unidade:                 req.Unidade,
		CapacidadeCriancas:      req.CapacidadeCriancas,
		CapacidadeProfissionais: req.CapacidadeProfissionais,
	})
	if err != nil {
		a.logger.Warn("falha ao atualizar sala", "err", err, "sala", id)
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusOK, sala)
}

func (a *API) desativarSala(w http.ResponseWriter, r *http.Request, id domain.SalaID) {
	sala, err := a.salas.DesativarSala(r.Context(), id)
	if err != nil {
		responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, sala)
}

// === Alocações ===

func (a *API) handleAlocacoes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
		return
	}
	a.alocar(w, r)
}

func (a *API) handleAlocacaoDetalhes(w http.ResponseWriter, r *http.Request) {
	partes := pathParts(r.URL.Path, "/alocacoes/")
	if len(partes) == 2 && partes[1] == "encerrar" && r.Method == http.MethodPost {
		a.desalocar(w, r, domain.AlocacaoID(partes[0]))
		return
	}
	http.NotFound(w, r)
}

type alocacaoRequest struct {
	ProfissionalID string `json:"profissional_id" validate:"required"`
	SalaID         string `json:"sala_id" validate:"required"`
	Turno          string `json:"turno" validate:"required"`
	DataInicio     string `json:"data_inicio"`
}

func (a *API) alocar(w http.ResponseWriter, r *http.Request) {
	var req alocacaoRequest
	if !a.decodificar(w, r, &req) {
		return
	}

	dataInicio, ok := parseDataOpcional(w, req.DataInicio)
	if !ok {
		return
	}

	alocada, err := a.alocacoes.Alocar(
		r.Context(),
		domain.ProfissionalID(req.ProfissionalID),
		domain.SalaID(req.SalaID),
		domain.Turno(req.Turno),
		dataInicio,
	)
	if err != nil {
		a.logger.Warn("falha ao alocar profissional", "err", err, "sala", req.SalaID, "profissional", req.ProfissionalID)
		responderErro(w, err)
		return
	}

	a.logger.Info("profissional alocado", "sala", req.SalaID, "profissional", req.ProfissionalID, "turno", req.Turno)
	responderJSON(w, http.StatusCreated, alocada)
}

type encerrarRequest struct {
	DataFim string `json:"data_fim"`
}

func (a *API) desalocar(w http.ResponseWriter, r *http.Request, id domain.AlocacaoID) {
	var req encerrarRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "payload invalido", http.StatusBadRequest)
			return
		}
	}

	dataFim, ok := parseDataOpcional(w, req.DataFim)
	if !ok {
		return
	}

	encerrada, err := a.alocacoes.Desalocar(r.Context(), id, dataFim)
	if err != nil {
		a.logger.Warn("falha ao encerrar alocacao", "err", err, "alocacao", id)
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusOK, encerrada)
}

func (a *API) listarAlocacoes(w http.ResponseWriter, r *http.Request, salaID domain.SalaID) {
	turno := domain.Turno(r.URL.Query().Get("turno"))
	referencia, ok := parseDataOpcional(w, r.URL.Query().Get("data"))
	if !ok {
		return
	}

	resultado, err := a.alocacoes.ListarAtivas(r.Context(), salaID, turno, referencia)
	if err != nil {
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusOK, resultado)
}

// === Atendimentos ===

func (a *API) handleAtendimentos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
		return
	}
	a.iniciarAtendimento(w, r)
}

func (a *API) handleAtendimentoDetalhes(w http.ResponseWriter, r *http.Request) {
	partes := pathParts(r.URL.Path, "/atendimentos/")
	if len(partes) == 0 {
		http.NotFound(w, r)
		return
	}

	id := domain.AtendimentoID(partes[0])

	switch {
	case len(partes) == 1 && r.Method == http.MethodGet:
		a.buscarAtendimento(w, r, id)
	case len(partes) == 2 && partes[1] == "periodos" && r.Method == http.MethodPut:
		a.registrarPeriodos(w, r, id)
	case len(partes) == 2 && partes[1] == "evolucao" && r.Method == http.MethodPost:
		a.registrarEvolucao(w, r, id)
	case len(partes) == 2 && partes[1] == "supervisao" && r.Method == http.MethodPost:
		a.supervisionar(w, r, id)
	case len(partes) == 2 && partes[1] == "valor" && r.Method == http.MethodGet:
		a.obterValor(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

type iniciarRequest struct {
	AgendamentoID   string  `json:"agendamento_id" validate:"required"`
	ProfissionalID  string  `json:"profissional_id" validate:"required"`
	SalaID          string  `json:"sala_id" validate:"required"`
	PacienteID      string  `json:"paciente_id" validate:"required"`
	EspecialidadeID string  `json:"especialidade_id"`
	ValorSessao     float64 `json:"valor_sessao" validate:"gte=0"`
	HorarioInicio   string  `json:"horario_inicio"`
}

func (a *API) iniciarAtendimento(w http.ResponseWriter, r *http.Request) {
	var req iniciarRequest
	if !a.decodificar(w, r, &req) {
		return
	}

	horario, ok := parseDataOpcional(w, req.HorarioInicio)
	if !ok {
		return
	}

	criado, err := a.atendimentos.Iniciar(r.Context(), atendimento.Inicio{
		AgendamentoID:   domain.AgendamentoID(req.AgendamentoID),
		ProfissionalID:  domain.ProfissionalID(req.ProfissionalID),
		SalaID:          domain.SalaID(req.SalaID),
		PacienteID:      domain.PacienteID(req.PacienteID),
		EspecialidadeID: domain.EspecialidadeID(req.EspecialidadeID),
		ValorSessao:     req.ValorSessao,
		HorarioInicio:   horario,
	})
	if err != nil {
		a.logger.Warn("falha ao iniciar atendimento", "err", err, "agendamento", req.AgendamentoID)
		responderErro(w, err)
		return
	}

	a.logger.Info("atendimento iniciado", "atendimento", criado.ID, "agendamento", req.AgendamentoID)
	responderJSON(w, http.StatusCreated, criado)
}

func (a *API) buscarAtendimento(w http.ResponseWriter, r *http.Request, id domain.AtendimentoID) {
	encontrado, err := a.atendimentos.Buscar(r.Context(), id)
	if err != nil {
		responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, encontrado)
}

type periodoRequest struct {
	Inicio string `json:"inicio" validate:"required"`
	Fim    string `json:"fim" validate:"required"`
}

type periodosRequest struct {
	Periodo1 periodoRequest  `json:"periodo_1" validate:"required"`
	Periodo2 *periodoRequest `json:"periodo_2"`
}

func (a *API) registrarPeriodos(w http.ResponseWriter, r *http.Request, id domain.AtendimentoID) {
	var req periodosRequest
	if !a.decodificar(w, r, &req) {
		return
	}

	periodo1, ok := parsePeriodo(w, req.Periodo1)
	if !ok {
		return
	}
	var periodo2 *domain.Periodo
	if req.Periodo2 != nil {
		p2, ok := parsePeriodo(w, *req.Periodo2)
		if !ok {
			return
		}
		periodo2 = &p2
	}

	atualizado, err := a.atendimentos.RegistrarPeriodos(r.Context(), id, periodo1, periodo2)
	if err != nil {
		a.logger.Warn("falha ao registrar periodos", "err", err, "atendimento", id)
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusOK, atualizado)
}

type evolucaoRequest struct {
	ProfissionalID string `json:"profissional_id" validate:"required"`
	Texto          string `json:"texto" validate:"required"`
}

func (a *API) registrarEvolucao(w http.ResponseWriter, r *http.Request, id domain.AtendimentoID) {
	var req evolucaoRequest
	if !a.decodificar(w, r, &req) {
		return
	}

	atualizado, err := a.atendimentos.RegistrarEvolucao(r.Context(), id, domain.ProfissionalID(req.ProfissionalID), req.Texto)
	if err != nil {
		a.logger.Warn("falha ao registrar evolucao", "err", err, "atendimento", id)
		responderErro(w, err)
		return
	}

	a.logger.Info("evolucao registrada", "atendimento", id, "profissional", req.ProfissionalID)
	responderJSON(w, http.StatusOK, atualizado)
}

type supervisaoRequest struct {
	SupervisorID string `json:"supervisor_id" validate:"required"`
	Observacoes  string `json:"observacoes"`
}

func (a *API) supervisionar(w http.ResponseWriter, r *http.Request, id domain.AtendimentoID) {
	var req supervisaoRequest
	if !a.decodificar(w, r, &req) {
		return
	}

	atualizado, err := a.atendimentos.Supervisionar(r.Context(), id, domain.ProfissionalID(req.SupervisorID), req.Observacoes)
	if err != nil {
		a.logger.Warn("falha ao supervisionar", "err", err, "atendimento", id, "supervisor", req.SupervisorID)
		responderErro(w, err)
		return
	}

	a.logger.Info("atendimento supervisionado", "atendimento", id, "supervisor", req.SupervisorID)
	responderJSON(w, http.StatusOK, atualizado)
}

func (a *API) obterValor(w http.ResponseWriter, r *http.Request, id domain.AtendimentoID) {
	valor, err := a.atendimentos.ValorAPagar(r.Context(), id)
	if err != nil {
		responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, map[string]float64{"valor_a_pagar": valor})
}

func (a *API) listarPendentesSupervisao(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
		return
	}

	inicio, ok := parseData(w, r.URL.Query().Get("inicio"))
	if !ok {
		return
	}
	fim, ok := parseData(w, r.URL.Query().Get("fim"))
	if !ok {
		return
	}
	profissionalID := domain.ProfissionalID(r.URL.Query().Get("profissional"))

	resultado, err := a.atendimentos.ListarPendentesSupervisao(r.Context(), inicio, fim, profissionalID)
	if err != nil {
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusOK, resultado)
}

// === Ocorrências ===

func (a *API) handleOcorrencias(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.registrarOcorrencia(w, r)
	case http.MethodGet:
		a.listarOcorrencias(w, r)
	default:
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
	}
}

func (a *API) handleOcorrenciaDetalhes(w http.ResponseWriter, r *http.Request) {
	partes := pathParts(r.URL.Path, "/ocorrencias/")
	if len(partes) == 2 && partes[1] == "resolver" && r.Method == http.MethodPost {
		a.resolverOcorrencia(w, r, domain.OcorrenciaID(partes[0]))
		return
	}
	http.NotFound(w, r)
}

type ocorrenciaRequest struct {
	AgendamentoID string  `json:"agendamento_id" validate:"required"`
	PacienteID    string  `json:"paciente_id" validate:"required"`
	Tipo          string  `json:"tipo" validate:"required"`
	Descricao     string  `json:"descricao"`
	MinutosAtraso int     `json:"minutos_atraso" validate:"gte=0"`
	RegistradoPor string  `json:"registrado_por" validate:"required"`
	ValorSessao   float64 `json:"valor_sessao" validate:"gte=0"`
}

func (a *API) registrarOcorrencia(w http.ResponseWriter, r *http.Request) {
	var req ocorrenciaRequest
	if !a.decodificar(w, r, &req) {
		return
	}

	criada, err := a.ocorrencias.Registrar(r.Context(), ocorrencia.Registro{
		AgendamentoID: domain.AgendamentoID(req.AgendamentoID),
		PacienteID:    domain.PacienteID(req.PacienteID),
		Tipo:          domain.TipoOcorrencia(req.Tipo),
		Descricao:     req.Descricao,
		MinutosAtraso: req.MinutosAtraso,
		RegistradoPor: domain.ProfissionalID(req.RegistradoPor),
		ValorSessao:   req.ValorSessao,
	})
	if err != nil {
		a.logger.Warn("falha ao registrar ocorrencia", "err", err, "agendamento", req.AgendamentoID)
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusCreated, criada)
}

type resolverRequest struct {
	Observacoes string `json:"observacoes"`
}

func (a *API) resolverOcorrencia(w http.ResponseWriter, r *http.Request, id domain.OcorrenciaID) {
	var req resolverRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "payload invalido", http.StatusBadRequest)
			return
		}
	}

	resolvida, err := a.ocorrencias.Resolver(r.Context(), id, req.Observacoes)
	if err != nil {
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusOK, resolvida)
}

func (a *API) listarOcorrencias(w http.ResponseWriter, r *http.Request) {
	agendamento := domain.AgendamentoID(r.URL.Query().Get("agendamento"))
	resultado, err := a.ocorrencias.ListarPorAgendamento(r.Context(), agendamento)
	if err != nil {
		responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, resultado)
}

// === Ocupação ===

func (a *API) obterOcupacao(w http.ResponseWriter, r *http.Request, salaID domain.SalaID) {
	data, ok := parseDataOpcional(w, r.URL.Query().Get("data"))
	if !ok {
		return
	}
	if data.IsZero() {
		data = time.Now().UTC()
	}
	turno := domain.Turno(r.URL.Query().Get("turno"))

	resultado, err := a.ocupacao.Calcular(r.Context(), salaID, data, turno)
	if err != nil {
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusOK, resultado)
}

func (a *API) avaliarAlerta(w http.ResponseWriter, r *http.Request, salaID domain.SalaID) {
	data, ok := parseDataOpcional(w, r.URL.Query().Get("data"))
	if !ok {
		return
	}
	if data.IsZero() {
		data = time.Now().UTC()
	}
	turno := domain.Turno(r.URL.Query().Get("turno"))

	if err := a.ocupacao.AvaliarAlerta(r.Context(), salaID, data, turno); err != nil {
		a.logger.Warn("falha ao avaliar alerta", "err", err, "sala", salaID)
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusAccepted, map[string]string{"status": "avaliado"})
}

// === Auxiliares ===

func (a *API) decodificar(w http.ResponseWriter, r *http.Request, destino any) bool {
	if err := json.NewDecoder(r.Body).Decode(destino); err != nil {
		a.logger.Warn("payload invalido", "err", err, "rota", r.URL.Path)
		http.Error(w, "payload invalido", http.StatusBadRequest)
		return false
	}
	if err := a.validate.Struct(destino); err != nil {
		a.logger.Warn("payload reprovado na validacao", "err", err, "rota", r.URL.Path)
		responderJSON(w, http.StatusBadRequest, map[string]string{"erro": err.Error()})
		return false
	}
	return true
}

func pathParts(path, prefix string) []string {
	trimmed := strings.TrimPrefix(path, prefix)
	if trimmed == "" {
		return nil
	}
	partes := strings.Split(strings.TrimSuffix(trimmed, "/"), "/")
	if len(partes) == 1 && partes[0] == "" {
		return nil
	}
	return partes
}

func parseData(w http.ResponseWriter, valor string) (time.Time, bool) {
	t, ok := parseDataOpcional(w, valor)
	if !ok {
		return time.Time{}, false
	}
	if t.IsZero() {
		http.Error(w, "data obrigatoria", http.StatusBadRequest)
		return time.Time{}, false
	}
	return t, true
}

func parseDataOpcional(w http.ResponseWriter, valor string) (time.Time, bool) {
	if valor == "" {
		return time.Time{}, true
	}
	// Aceitamos tanto timestamps completos quanto datas simples.
	if t, err := time.Parse(time.RFC3339, valor); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", valor); err == nil {
		return t, true
	}
	http.Error(w, "data invalida", http.StatusBadRequest)
	return time.Time{}, false
}

func parsePeriodo(w http.ResponseWriter, req periodoRequest) (domain.Periodo, bool) {
	inicio, ok := parseData(w, req.Inicio)
	if !ok {
		return domain.Periodo{}, false
	}
	fim, ok := parseData(w, req.Fim)
	if !ok {
		return domain.Periodo{}, false
	}
	return domain.Periodo{Inicio: inicio, Fim: fim}, true
}

func responderJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func responderErro(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrValidacao):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrCapacidadeExcedida):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrConflito):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrTransicaoInvalida):
		status = http.StatusUnprocessableEntity
	}

	responderJSON(w, status, map[string]string{"erro": err.Error()})
}
