// Pacote metrics registra os coletores Prometheus compartilhados por API e worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	palpiteRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiniela_palpite_requests_total",
		Help: "Total de envios de palpite por resultado",
	}, []string{"status"})

	resultadosProcessadosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiniela_resultados_processados_total",
		Help: "Eventos de resultado processados (pontuacao, agregados e liquidacao)",
	}, []string{"status"})

	resultadoProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "quiniela_resultado_processing_duration_seconds",
		Help:    "Tempo para processar um evento de resultado",
		Buckets: prometheus.DefBuckets,
	})

	palpitesPontuadosTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quiniela_palpites_pontuados_total",
		Help: "Palpites cuja pontuacao foi recalculada",
	})

	liquidacoesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiniela_liquidacoes_total",
		Help: "Liquidacoes executadas por numero de vencedores",
	}, []string{"vencedores"})

	pagamentosCriadosTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quiniela_pagamentos_criados_total",
		Help: "Pagamentos novos gerados por liquidacoes",
	})

	transicoesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiniela_transicoes_total",
		Help: "Transicoes de status de quiniela",
	}, []string{"para", "origem"})
)

func ObservePalpiteRequest(status string) {
	palpiteRequestsTotal.WithLabelValues(status).Inc()
}

func ObserveResultadoProcessado(status string, seconds float64) {
	resultadosProcessadosTotal.WithLabelValues(status).Inc()
	resultadoProcessingDuration.Observe(seconds)
}

func AddPalpitesPontuados(n int) {
	palpitesPontuadosTotal.Add(float64(n))
}

func IncLiquidacao(vencedores string) {
	liquidacoesTotal.WithLabelValues(vencedores).Inc()
}

func AddPagamentosCriados(n int) {
	pagamentosCriadosTotal.Add(float64(n))
}

// IncTransicao registra uma mudança de status; origem é "manual" ou "automatica".
func IncTransicao(para, origem string) {
	transicoesTotal.WithLabelValues(para, origem).Inc()
}
