package domain

import (
	"time"
)

type (
	SalaID          string
	AlocacaoID      string
	ProfissionalID  string
	PacienteID      string
	AgendamentoID   string
	AtendimentoID   string
	EvolucaoID      string
	OcorrenciaID    string
	AlertaID        string
	EspecialidadeID string
)

// Turno é a unidade de controle de capacidade das salas.
type Turno string

const (
	TurnoManha    Turno = "manha"
	TurnoTarde    Turno = "tarde"
	TurnoNoite    Turno = "noite"
	TurnoIntegral Turno = "integral"
)

// TipoOcorrencia classifica os registros feitos pela recepção.
type TipoOcorrencia string

const (
	OcorrenciaAtraso      TipoOcorrencia = "atraso"
	OcorrenciaFalhaGuia   TipoOcorrencia = "falha_guia"
	OcorrenciaGuiaAusente TipoOcorrencia = "guia_ausente"
	OcorrenciaFalta       TipoOcorrencia = "falta"
)

type Sala struct {
	ID                      SalaID    `gorm:"column:id;type:char(26);primaryKey"`
	Nome                    string    `gorm:"column:nome;type:text;not null"`
	Cor                     string    `gorm:"column:cor;type:text"`
	Especialidade           string    `gorm:"column:especialidade;type:text;index"`
	Unidade                 string    `gorm:"column:unidade;type:text;index"`
	CapacidadeCriancas      int       `gorm:"column:capacidade_criancas;not null"`
	CapacidadeProfissionais int       `gorm:"column:capacidade_profissionais;not null"`
	Ativa                   bool      `gorm:"column:ativa;not null;default:true"`
	CriadoEm                time.Time `gorm:"column:criado_em;autoCreateTime"`
	AtualizadoEm            time.Time `gorm:"column:atualizado_em;autoUpdateTime"`
}

// Alocacao registra um profissional ocupando uma sala num turno, dentro de um
// intervalo de datas. Nunca é removida fisicamente: o encerramento marca
// ativa=false e carimba data_fim (trilha de auditoria).
type Alocacao struct {
	ID             AlocacaoID     `gorm:"column:id;type:char(26);primaryKey"`
	SalaID         SalaID         `gorm:"column:sala_id;type:char(26);not null;index:idx_alocacoes_sala_turno,priority:1"`
	ProfissionalID ProfissionalID `gorm:"column:profissional_id;type:char(26);not null;index"`
	Turno          Turno          `gorm:"column:turno;type:text;not null;index:idx_alocacoes_sala_turno,priority:2"`
	DataInicio     time.Time      `gorm:"column:data_inicio;not null"`
	DataFim        *time.Time     `gorm:"column:data_fim"`
	Ativa          bool           `gorm:"column:ativa;not null;default:true"`
	CriadoEm       time.Time      `gorm:"column:criado_em;autoCreateTime"`
	AtualizadoEm   time.Time      `gorm:"column:atualizado_em;autoUpdateTime"`
}

// Periodo delimita um trecho contínuo de um atendimento interrompido e retomado.
type Periodo struct {
	Inicio time.Time
	Fim    time.Time
}

// Atendimento é o registro de uma sessão efetivamente realizada (atendimento
// real), distinto do agendamento que o originou. Carrega o estado de
// supervisão/pagamento e nunca é excluído (registro financeiro).
type Atendimento struct {
	ID              AtendimentoID   `gorm:"column:id;type:char(26);primaryKey"`
	AgendamentoID   AgendamentoID   `gorm:"column:agendamento_id;type:char(26);not null;index"`
	ProfissionalID  ProfissionalID  `gorm:"column:profissional_id;type:char(26);not null;index"`
	SalaID          SalaID          `gorm:"column:sala_id;type:char(26);not null;index:idx_atendimentos_sala_inicio,priority:1"`
	PacienteID      PacienteID      `gorm:"column:paciente_id;type:char(26);not null"`
	EspecialidadeID EspecialidadeID `gorm:"column:especialidade_id;type:char(26)"`

	HorarioInicio  time.Time  `gorm:"column:horario_inicio;not null;index:idx_atendimentos_sala_inicio,priority:2"`
	HorarioFim     *time.Time `gorm:"column:horario_fim"`
	Periodo1Inicio *time.Time `gorm:"column:periodo_1_inicio"`
	Periodo1Fim    *time.Time `gorm:"column:periodo_1_fim"`
	Periodo2Inicio *time.Time `gorm:"column:periodo_2_inicio"`
	Periodo2Fim    *time.Time `gorm:"column:periodo_2_fim"`
	DuracaoMinutos int        `gorm:"column:duracao_minutos;not null;default:0"`

	ValorSessao         float64         `gorm:"column:valor_sessao;type:numeric(10,2);not null"`
	PercentualPagamento int             `gorm:"column:percentual_pagamento;not null;default:0"`
	EvolucaoFeita       bool            `gorm:"column:evolucao_feita;not null;default:false"`
	Supervisionado      bool            `gorm:"column:supervisionado;not null;default:false"`
	SupervisionadoPor   *ProfissionalID `gorm:"column:supervisionado_por;type:char(26)"`
	DataSupervisao      *time.Time      `gorm:"column:data_supervisao"`
	PagamentoLiberado   bool            `gorm:"column:pagamento_liberado;not null;default:false"`

	// Versao protege as transições de estado contra escritas concorrentes.
	Versao       int       `gorm:"column:versao;not null;default:1"`
	CriadoEm     time.Time `gorm:"column:criado_em;autoCreateTime"`
	AtualizadoEm time.Time `gorm:"column:atualizado_em;autoUpdateTime"`
}

// Evolucao é a nota clínica escrita pelo profissional após a sessão. Uma por
// atendimento, imutável; correções viram registros novos, nunca edições.
type Evolucao struct {
	ID             EvolucaoID     `gorm:"column:id;type:char(26);primaryKey"`
	AtendimentoID  AtendimentoID  `gorm:"column:atendimento_id;type:char(26);not null;uniqueIndex"`
	ProfissionalID ProfissionalID `gorm:"column:profissional_id;type:char(26);not null"`
	Texto          string         `gorm:"column:texto;type:text;not null"`
	CriadoEm       time.Time      `gorm:"column:criado_em;autoCreateTime"`
}

type Ocorrencia struct {
	ID                 OcorrenciaID   `gorm:"column:id;type:char(26);primaryKey"`
	AgendamentoID      AgendamentoID  `gorm:"column:agendamento_id;type:char(26);not null;index"`
	PacienteID         PacienteID     `gorm:"column:paciente_id;type:char(26);not null"`
	Tipo               TipoOcorrencia `gorm:"column:tipo;type:text;not null"`
	Descricao          string         `gorm:"column:descricao;type:text"`
	MinutosAtraso      int            `gorm:"column:minutos_atraso;not null;default:0"`
	DescontoPercentual int            `gorm:"column:desconto_percentual;not null;default:0"`
	ValorDesconto      float64        `gorm:"column:valor_desconto;type:numeric(10,2);not null;default:0"`
	RegistradoPor      ProfissionalID `gorm:"column:registrado_por;type:char(26);not null"`
	Resolvida          bool           `gorm:"column:resolvida;not null;default:false"`
	Observacoes        string         `gorm:"column:observacoes;type:text"`
	CriadoEm           time.Time      `gorm:"column:criado_em;autoCreateTime"`
	AtualizadoEm       time.Time      `gorm:"column:atualizado_em;autoUpdateTime"`
}

type AlertaOcupacao struct {
	ID                    AlertaID   `gorm:"column:id;type:char(26);primaryKey"`
	SalaID                SalaID     `gorm:"column:sala_id;type:char(26);not null;index:idx_alertas_tupla,priority:1"`
	Data                  time.Time  `gorm:"column:data;not null;index:idx_alertas_tupla,priority:2"`
	Turno                 Turno      `gorm:"column:turno;type:text;not null;index:idx_alertas_tupla,priority:3"`
	OcupacaoCriancas      int        `gorm:"column:ocupacao_criancas;not null"`
	OcupacaoProfissionais int        `gorm:"column:ocupacao_profissionais;not null"`
	PercentualOcupacao    int        `gorm:"column:percentual_ocupacao;not null"`
	Destinatarios         string     `gorm:"column:destinatarios;type:text"`
	Enviado               bool       `gorm:"column:enviado;not null;default:false"`
	EnviadoEm             *time.Time `gorm:"column:enviado_em"`
	CriadoEm              time.Time  `gorm:"column:criado_em;autoCreateTime"`
}

// Ocupacao é o retrato derivado da utilização de uma sala num turno/data.
// Não é persistida; os percentuais arredondados servem apenas para exibição,
// enquanto a comparação com o limiar de alerta usa as razões brutas.
type Ocupacao struct {
	SalaID             SalaID
	Data               time.Time
	Turno              Turno
	Criancas           int
	Profissionais      int
	RazaoCriancas      float64
	RazaoProfissionais float64
	PctCriancas        int
	PctProfissionais   int
}

func (Sala) TableName() string { return "salas" }

func (Alocacao) TableName() string { return "alocacoes" }

func (Atendimento) TableName() string { return "atendimentos" }

func (Evolucao) TableName() string { return "evolucoes" }

func (Ocorrencia) TableName() string { return "ocorrencias" }

func (AlertaOcupacao) TableName() string { return "alertas_ocupacao" }
