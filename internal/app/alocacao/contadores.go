package alocacao

import (
	"fmt"

	"github.com/vidaplena/modulo-terapeutico/internal/domain"
)

func ChaveProfissionais(salaID domain.SalaID, turno domain.Turno) string {
	return fmt.Sprintf("sala:%s:turno:%s:profissionais", salaID, turno)
}

func ChaveCriancas(salaID domain.SalaID, turno domain.Turno) string {
	return fmt.Sprintf("sala:%s:turno:%s:criancas", salaID, turno)
}
