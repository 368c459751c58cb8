package main

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"

	bplus "github.com/btree-query-bench/keyindex/index/bplustree"
)

// metrics collects benchmark results in a private registry so they can be
// written as a node_exporter textfile.
type metrics struct {
	reg       *prometheus.Registry
	latency   *prometheus.GaugeVec
	heap      *prometheus.GaugeVec
	allocated *prometheus.GaugeVec
	structure *prometheus.GaugeVec
	height    *prometheus.GaugeVec
}

func newMetrics() *metrics {
	m := &metrics{
		reg: prometheus.NewRegistry(),
		latency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "bmark",
			Name:      "op_latency_nanoseconds",
			Help:      "Mean latency per operation of a workload.",
		}, []string{"structure", "config", "workload"}),
		heap: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "bmark",
			Name:      "heap_alloc_megabytes",
			Help:      "Live heap after a workload.",
		}, []string{"structure", "config", "workload"}),
		allocated: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "bmark",
			Name:      "heap_total_alloc_megabytes",
			Help:      "Bytes allocated by the process so far, sampled after a workload.",
		}, []string{"structure", "config", "workload"}),
		structure: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "bmark",
			Subsystem: "bplustree",
			Name:      "structural_changes",
			Help:      "Splits, merges, borrows and root changes of the B+ tree after a suite.",
		}, []string{"order", "kind"}),
		height: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "bmark",
			Subsystem: "bplustree",
			Name:      "height",
			Help:      "Edges between the root and the leaves after a suite.",
		}, []string{"order"}),
	}
	m.reg.MustRegister(m.latency, m.heap, m.allocated, m.structure, m.height)
	return m
}

func (m *metrics) observe(res BenchResult) {
	m.latency.WithLabelValues(res.Name, res.Config, res.Operation).Set(float64(res.LatencyNs))
	m.heap.WithLabelValues(res.Name, res.Config, res.Operation).Set(float64(res.MemMB))
	m.allocated.WithLabelValues(res.Name, res.Config, res.Operation).Set(float64(res.TotalAllocMB))
}

func (m *metrics) observeTree(tr *bplus.Tree) {
	order := strconv.Itoa(tr.Order())
	s := tr.Stats()
	for kind, v := range map[string]uint64{
		"leaf_split":     s.LeafSplits,
		"internal_split": s.InternalSplits,
		"borrow":         s.Borrows,
		"leaf_merge":     s.LeafMerges,
		"internal_merge": s.InternalMerges,
		"root_growth":    s.RootGrowths,
		"root_collapse":  s.RootCollapses,
	} {
		m.structure.WithLabelValues(order, kind).Set(float64(v))
	}
	m.height.WithLabelValues(order).Set(float64(tr.Height()))
}

func (m *metrics) writeTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return errors.Wrapf(err, "write metrics to %s", path)
	}
	return nil
}
