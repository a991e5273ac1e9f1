package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	alocacaoRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clinica_alocacao_requests_total",
		Help: "Total de pedidos de alocacao de sala por resultado",
	}, []string{"status"})

	supervisaoTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clinica_supervisao_total",
		Help: "Total de supervisoes aplicadas por resultado",
	}, []string{"status"})

	alertasCriadosTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clinica_alertas_ocupacao_criados_total",
		Help: "Total de alertas de ocupacao criados",
	})

	alertasDespachadosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clinica_alertas_ocupacao_despachados_total",
		Help: "Total de alertas processados pelo worker por resultado",
	}, []string{"status"})

	despachoDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clinica_alerta_despacho_duration_seconds",
		Help:    "Tempo para despachar um alerta de ocupacao",
		Buckets: prometheus.DefBuckets,
	})
)

func ObserveAlocacao(status string) {
	alocacaoRequestsTotal.WithLabelValues(status).Inc()
}

func ObserveSupervisao(status string) {
	supervisaoTotal.WithLabelValues(status).Inc()
}

func IncAlertaCriado() {
	alertasCriadosTotal.Inc()
}

func ObserveAlertaDespachado(status string) {
	alertasDespachadosTotal.WithLabelValues(status).Inc()
}

func ObserveDespachoDuration(seconds float64) {
	despachoDuration.Observe(seconds)
}
