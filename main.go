package main

import (
	"encoding/csv"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/btree-query-bench/keyindex/index"
	bplus "github.com/btree-query-bench/keyindex/index/bplustree"
	"github.com/btree-query-bench/keyindex/index/btree"
	"github.com/btree-query-bench/keyindex/index/listindex"
	"github.com/btree-query-bench/keyindex/index/lsm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		dev      bool
		log      = zap.NewNop()
	)
	root := &cobra.Command{
		Use:          "bmark",
		Short:        "Benchmark, verify and inspect the B+ tree key index",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			l, err := newLogger(logLevel, dev)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = log.Sync()
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	root.PersistentFlags().BoolVar(&dev, "dev", false, "human readable console logging")

	logger := func() *zap.Logger { return log }
	root.AddCommand(newRunCmd(logger), newPrintCmd(logger), newVerifyCmd(logger))
	return root
}

func newRunCmd(logger func() *zap.Logger) *cobra.Command {
	cfg := defaultConfig()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sweep every structure over the standard workloads and write CSV results",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return runBenchmarks(cfg, logger())
		},
	}
	f := cmd.Flags()
	f.IntVar(&cfg.Scale, "scale", cfg.Scale, "keys loaded before the workloads run")
	f.IntVar(&cfg.RangeOps, "range-ops", cfg.RangeOps, "scans executed by the Reporting workload")
	f.IntSliceVar(&cfg.Orders, "orders", cfg.Orders, "B+ tree orders to sweep")
	f.IntSliceVar(&cfg.Degrees, "degrees", cfg.Degrees, "google/btree degrees to sweep")
	f.BoolVar(&cfg.WithPebble, "pebble", cfg.WithPebble, "include the Pebble LSM")
	f.StringVar(&cfg.PebbleDir, "pebble-dir", cfg.PebbleDir, "directory for the Pebble store, in memory when empty")
	f.BoolVar(&cfg.WithList, "list", cfg.WithList, "include the sorted-slice baseline (O(n) inserts)")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for the workload generator")
	f.StringVar(&cfg.Out, "out", cfg.Out, "CSV result file")
	f.StringVar(&cfg.PlotDir, "plot-dir", cfg.PlotDir, "write one PNG chart per workload into this directory")
	f.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus text format metrics to this file")
	return cmd
}

// suite is one structure/config pair of the sweep.
type suite struct {
	name   string
	config string
	open   func() (index.Index, error)
	// after runs once the workloads are done, while the index is still open.
	after func()
}

func suites(cfg config, m *metrics, log *zap.Logger) []suite {
	var out []suite
	for _, order := range cfg.Orders {
		var tr *bplus.Tree
		out = append(out, suite{
			name:   "BPlusTree",
			config: strconv.Itoa(order),
			open: func() (index.Index, error) {
				var err error
				tr, err = bplus.New(order, bplus.WithLogger(log.Named("bplus")))
				if err != nil {
					return nil, err
				}
				return bplus.AsIndex(tr), nil
			},
			after: func() { m.observeTree(tr) },
		})
	}
	for _, d := range cfg.Degrees {
		out = append(out, suite{
			name:   "B-Tree",
			config: strconv.Itoa(d),
			open:   func() (index.Index, error) { return btree.NewBTree(d), nil },
		})
	}
	if cfg.WithPebble {
		config := "mem"
		if cfg.PebbleDir != "" {
			config = "disk"
		}
		out = append(out, suite{
			name:   "LSM-Tree",
			config: config,
			open:   func() (index.Index, error) { return lsm.Open(cfg.PebbleDir) },
		})
	}
	if cfg.WithList {
		out = append(out, suite{
			name:   "List",
			config: "sorted",
			open:   func() (index.Index, error) { return listindex.NewListIndex(), nil },
		})
	}
	return out
}

func runBenchmarks(cfg config, log *zap.Logger) error {
	f, err := os.Create(cfg.Out)
	if err != nil {
		return errors.Wrap(err, "create result file")
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return errors.Wrap(err, "write header")
	}

	m := newMetrics()
	var results []BenchResult
	record := func(res BenchResult) error {
		results = append(results, res)
		m.observe(res)
		return Record(w, res)
	}

	for _, s := range suites(cfg, m, log) {
		if err := runSuite(s, cfg, record, log); err != nil {
			return errors.Wrapf(err, "%s (config %s)", s.name, s.config)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "flush results")
	}

	if cfg.PlotDir != "" {
		files, err := plotResults(cfg.PlotDir, results)
		if err != nil {
			return err
		}
		log.Info("plots written", zap.Strings("files", files))
	}
	if cfg.MetricsFile != "" {
		if err := m.writeTextfile(cfg.MetricsFile); err != nil {
			return err
		}
		log.Info("metrics written", zap.String("file", cfg.MetricsFile))
	}
	log.Info("benchmark complete", zap.String("csv", cfg.Out), zap.Int("rows", len(results)))
	return nil
}

func runSuite(s suite, cfg config, record func(BenchResult) error, log *zap.Logger) error {
	log.Info("testing", zap.String("structure", s.name), zap.String("config", s.config))

	idx, err := s.open()
	if err != nil {
		return err
	}
	defer idx.Close()

	rng := rand.New(rand.NewSource(cfg.Seed))
	n := cfg.Scale

	// 1. Pure Insert (Initial Load)
	start := time.Now()
	for k := 0; k < n; k++ {
		if err := idx.Insert(uint64(k)); err != nil {
			return errors.Wrapf(err, "load key %d", k)
		}
	}
	insertLatency := time.Since(start).Nanoseconds() / int64(n)

	// Measure memory immediately after load but before workloads
	if err := record(BenchResult{
		Name:      s.name,
		Config:    s.config,
		Operation: "Footprint_SteadyState",
		LatencyNs: insertLatency,
	}.sampled()); err != nil {
		return err
	}

	// 2. Mixed workloads over the loaded key space
	for _, wl := range workloads {
		ops := n / 2
		if wl == Reporting {
			ops = cfg.RangeOps
		}
		if ops == 0 {
			continue
		}
		start = time.Now()
		if err := ExecuteWorkload(idx, wl, ops, n, rng); err != nil {
			return err
		}
		latency := time.Since(start).Nanoseconds() / int64(ops)
		if err := record(BenchResult{
			Name:      s.name,
			Config:    s.config,
			Operation: "Workload_" + wl.Tag(),
			LatencyNs: latency,
		}.sampled()); err != nil {
			return err
		}
		log.Debug("workload done", zap.String("workload", string(wl)), zap.Int64("ns_per_op", latency))
	}

	if s.after != nil {
		s.after()
	}
	return nil
}
