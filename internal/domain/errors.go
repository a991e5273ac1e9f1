package domain

import "errors"

var (
	ErrNotFound = errors.New("registro nao encontrado")

	// ErrCapacidadeExcedida indica sala/turno lotado; o chamador deve
	// escolher outra sala ou turno, nunca repetir automaticamente.
	ErrCapacidadeExcedida = errors.New("capacidade de profissionais da sala excedida")

	// ErrTransicaoInvalida cobre transições fora de ordem do atendimento,
	// como supervisionar sem evolução ou registrar evolução duplicada.
	ErrTransicaoInvalida = errors.New("transicao de estado invalida")

	// ErrConflito sinaliza escrita concorrente perdida; o chamador deve
	// reler o estado atual antes de decidir repetir a intenção.
	ErrConflito = errors.New("conflito de escrita concorrente")

	ErrValidacao = errors.New("entrada invalida")
)
