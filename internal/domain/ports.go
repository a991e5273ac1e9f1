package domain

import (
	"context"
	"time"
)

type SalaRepository interface {
	Create(ctx context.Context, s Sala) error
	Update(ctx context.Context, s Sala) error
	FindByID(ctx context.Context, id SalaID) (Sala, error)
	List(ctx context.Context, especialidade, unidade string) ([]Sala, error)
}

type AlocacaoRepository interface {
	// CriarComCapacidade conta as alocações ativas da sala/turno e insere a
	// nova alocação dentro da mesma transação; devolve ErrCapacidadeExcedida
	// quando o limite já foi atingido, sem gravar nada.
	CriarComCapacidade(ctx context.Context, a Alocacao, capacidade int) error
	Encerrar(ctx context.Context, id AlocacaoID, dataFim time.Time) (Alocacao, error)
	FindByID(ctx context.Context, id AlocacaoID) (Alocacao, error)
	ListAtivas(ctx context.Context, salaID SalaID, turno Turno, referencia time.Time) ([]Alocacao, error)
	CountAtivas(ctx context.Context, salaID SalaID, turno Turno, referencia time.Time) (int64, error)
}

type AtendimentoRepository interface {
	Create(ctx context.Context, a Atendimento) error
	FindByID(ctx context.Context, id AtendimentoID) (Atendimento, error)
	// UpdateVersioned aplica a atualização somente se a versão persistida for
	// a esperada; devolve ErrConflito quando outro escritor chegou antes.
	UpdateVersioned(ctx context.Context, a Atendimento, versaoEsperada int) error
	ListPendentesSupervisao(ctx context.Context, inicio, fim time.Time, profissionalID ProfissionalID) ([]Atendimento, error)
	CountPorSalaTurno(ctx context.Context, salaID SalaID, data time.Time, turno Turno) (int64, error)
	CreateEvolucao(ctx context.Context, e Evolucao) error
	FindEvolucaoByAtendimento(ctx context.Context, id AtendimentoID) (Evolucao, error)
}

type OcorrenciaRepository interface {
	Create(ctx context.Context, o Ocorrencia) error
	FindByID(ctx context.Context, id OcorrenciaID) (Ocorrencia, error)
	Update(ctx context.Context, o Ocorrencia) error
	ListByAgendamento(ctx context.Context, id AgendamentoID) ([]Ocorrencia, error)
}

type AlertaRepository interface {
	Create(ctx context.Context, a AlertaOcupacao) error
	FindByID(ctx context.Context, id AlertaID) (AlertaOcupacao, error)
	// ExisteParaTupla cobre alertas enviados e pendentes: a tupla nunca
	// reabre automaticamente.
	ExisteParaTupla(ctx context.Context, salaID SalaID, data time.Time, turno Turno) (bool, error)
	MarcarEnviado(ctx context.Context, id AlertaID, quando time.Time) error
}

type FilaAlertas interface {
	PublicarAlerta(ctx context.Context, id AlertaID) error
	ConsumirAlertas(ctx context.Context, handler func(context.Context, AlertaID) error) error
}

type Contador interface {
	Incrementar(ctx context.Context, chave string, delta int64) (int64, error)
	Obter(ctx context.Context, chave string) (int64, error)
	ObterTodos(ctx context.Context, chaves []string) (map[string]int64, error)
}

// Notificador entrega o conteúdo de um alerta aos destinatários configurados.
// A entrega é melhor esforço; erros são tratados com retentativa limitada.
type Notificador interface {
	Notificar(ctx context.Context, alerta AlertaOcupacao) error
}

type Clock interface {
	Agora() time.Time
}
