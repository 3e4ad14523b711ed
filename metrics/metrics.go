// Package metrics declares the Prometheus collectors updated by the conflict
// graph. Collectors register with the default registry on import; expose them
// with promhttp.Handler().
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "conflictcover"

// Graph construction.
var (
	GraphBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "graph_build_duration_seconds",
		Help:      "Time to build a conflict graph from a row source",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "graph_nodes",
		Help:      "Nodes of the most recently built conflict graph",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "graph_edges",
		Help:      "Edges of the most recently built conflict graph",
	})
)

// Deterministic approximators.
var (
	CoverRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cover_runs_total",
		Help:      "Vertex cover approximations run, by algorithm",
	}, []string{"algorithm"})

	CoverSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cover_size",
		Help:      "Size of the last vertex cover, by algorithm",
	}, []string{"algorithm"})

	TrianglesEliminated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "triangles_eliminated_total",
		Help:      "Triangles removed by triangle elimination",
	})
)

// Sublinear estimator.
var (
	EstimatorSamples = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "estimator_samples_total",
		Help:      "Nodes sampled by the inconsistency estimator",
	})

	EstimatorHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "estimator_cover_hits_total",
		Help:      "Sampled nodes found in the local vertex cover",
	})

	MatchingResolutions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "matching_resolutions_total",
		Help:      "Edges whose matching membership was resolved (cache misses)",
	})

	EstimationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "estimation_duration_seconds",
		Help:      "Time of one InconsistencyDegree call",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
)

// Algorithm label values for CoverRuns and CoverSize.
const (
	AlgorithmColoring = "coloring_lp"
	AlgorithmTriangle = "triangle_lp"
)
