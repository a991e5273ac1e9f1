package domain

import "time"

// TurnoDoHorario classifica um horário no turno correspondente da clínica.
func TurnoDoHorario(t time.Time) Turno {
	switch h := t.Hour(); {
	case h < 12:
		return TurnoManha
	case h < 18:
		return TurnoTarde
	default:
		return TurnoNoite
	}
}

// Cobre informa se uma alocação neste turno ocupa também o turno consultado.
// O turno integral consome capacidade em todos os turnos do dia.
func (t Turno) Cobre(outro Turno) bool {
	if t == outro {
		return true
	}
	return t == TurnoIntegral || outro == TurnoIntegral
}

func (t Turno) Valido() bool {
	switch t {
	case TurnoManha, TurnoTarde, TurnoNoite, TurnoIntegral:
		return true
	}
	return false
}

func (t TipoOcorrencia) Valido() bool {
	switch t {
	case OcorrenciaAtraso, OcorrenciaFalhaGuia, OcorrenciaGuiaAusente, OcorrenciaFalta:
		return true
	}
	return false
}
