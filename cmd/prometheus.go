package main

import (
	"signalcopier/internal/usecasees"
	"signalcopier/internal/usecasees/structs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (a *App) initMetrics() {
	metrics := usecasees.Metrics{}

	for _, m := range []structs.MetricConst{
		structs.MetricSignalParsed,
		structs.MetricSignalVetoed,
		structs.MetricModificationParsed,
		structs.MetricCommandQueued,
		structs.MetricSignalQueued,
		structs.MetricLimitHit,
		structs.MetricAckReceived,
	} {
		metrics[m] = promauto.NewCounter(prometheus.CounterOpts{
			Name: m.ToString(),
			Help: m.ToString(),
		})
	}

	a.Metrics = metrics
}
