// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "decohome",
		Name:      "orders_placed_total",
		Help:      "Orders placed through the mock checkout.",
	})

	CatalogPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "decohome",
		Name:      "catalog_persist_failures_total",
		Help:      "Catalog writes to storage that failed.",
	})

	DecodeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "decohome",
		Name:      "catalog_decode_failures_total",
		Help:      "Catalog payloads that could not be decoded, by channel.",
	}, []string{"channel"})

	CatalogSource = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "decohome",
		Name:      "catalog_resolutions_total",
		Help:      "Startup catalog resolutions, by winning source.",
	}, []string{"source"})

	Generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "decohome",
		Name:      "ai_generations_total",
		Help:      "AI product description generations, by outcome.",
	}, []string{"outcome"})
)
