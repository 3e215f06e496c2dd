// Package metrics define los indicadores Prometheus del motor de
// trazabilidad. Variables a nivel de paquete registradas vía promauto; el
// endpoint /metrics las expone.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FlowsRecorded total de registros de flujo por etapa.
	FlowsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "material_flow_records_total",
		Help: "Total de registros de balance de material, por etapa",
	}, []string{"stage"})

	// StageYieldPct distribución del yield observado por etapa.
	// El bucket > 100 captura las anomalías good > input.
	StageYieldPct = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "material_flow_yield_pct",
		Help:    "Yield porcentual de los registros de flujo, por etapa",
		Buckets: []float64{50, 70, 80, 85, 90, 95, 98, 100, 105},
	}, []string{"stage"})

	// TransfersInitiated total de traspasos iniciados.
	TransfersInitiated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "process_transfers_initiated_total",
		Help: "Total de traspasos entre etapas iniciados",
	})

	// TransfersClosed total de traspasos cerrados, por estado terminal.
	TransfersClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "process_transfers_closed_total",
		Help: "Total de traspasos cerrados, por estado terminal (RECEIVED o DISCREPANCY)",
	}, []string{"status"})
)
