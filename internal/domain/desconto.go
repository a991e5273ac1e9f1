package domain

// CalcularDescontoAtraso devolve o percentual de desconto aplicado à sessão
// em função dos minutos de atraso do paciente. Função pura e total: o valor
// é calculado uma única vez no registro da ocorrência e congelado nela.
func CalcularDescontoAtraso(minutos int) int {
	switch {
	case minutos < 15:
		return 0
	case minutos < 30:
		return 25
	default:
		return 50
	}
}
