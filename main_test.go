package main

import (
	"bytes"
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/btree-query-bench/keyindex/index"
	bplus "github.com/btree-query-bench/keyindex/index/bplustree"
	"github.com/btree-query-bench/keyindex/index/btree"
	"github.com/btree-query-bench/keyindex/index/listindex"
)

func TestConfigValidate(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.validate())

	bad := defaultConfig()
	bad.Orders = []int{2}
	err := bad.validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, bplus.ErrInvalidOrder))

	for _, mutate := range []func(*config){
		func(c *config) { c.Scale = 0 },
		func(c *config) { c.RangeOps = -1 },
		func(c *config) { c.Degrees = []int{1} },
		func(c *config) { c.Out = "" },
	} {
		c := defaultConfig()
		mutate(&c)
		require.Error(t, c.validate())
	}
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug", true)
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zap.DebugLevel))

	_, err = newLogger("loud", false)
	require.Error(t, err)
}

func TestWorkloadTag(t *testing.T) {
	require.Equal(t, "OLTP", OLTP.Tag())
	require.Equal(t, "Reporting", Reporting.Tag())
	require.Equal(t, "x", WorkloadType("x").Tag())
}

func TestPlotFileName(t *testing.T) {
	require.Equal(t, "oltp_90_10.png", plotFileName("OLTP (90/10)"))
	require.Equal(t, "workload_reporting.png", plotFileName("Workload_Reporting"))
}

func TestExecuteWorkload(t *testing.T) {
	for name, open := range map[string]func() index.Index{
		"list":  func() index.Index { return listindex.NewListIndex() },
		"btree": func() index.Index { return btree.NewBTree(4) },
		"bplus": func() index.Index {
			tr, err := bplus.New(4, bplus.WithInvariantChecks(true))
			require.NoError(t, err)
			return bplus.AsIndex(tr)
		},
	} {
		t.Run(name, func(t *testing.T) {
			idx := open()
			defer idx.Close()
			rng := rand.New(rand.NewSource(7))
			for _, wl := range workloads {
				require.NoError(t, ExecuteWorkload(idx, wl, 300, 500, rng), wl)
			}
			require.Error(t, ExecuteWorkload(idx, WorkloadType("bogus"), 1, 10, rng))
		})
	}
}

func TestRunBenchmarks(t *testing.T) {
	dir := t.TempDir()
	cfg := defaultConfig()
	cfg.Scale = 200
	cfg.RangeOps = 5
	cfg.Orders = []int{4}
	cfg.Degrees = []int{4}
	cfg.WithList = true
	cfg.Out = filepath.Join(dir, "results.csv")
	cfg.PlotDir = filepath.Join(dir, "plots")
	cfg.MetricsFile = filepath.Join(dir, "bmark.prom")
	require.NoError(t, cfg.validate())
	require.NoError(t, runBenchmarks(cfg, zap.NewNop()))

	f, err := os.Open(cfg.Out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Equal(t, csvHeader, rows[0])
	// Four suites, each with a footprint row and one row per workload.
	require.Len(t, rows, 1+4*(1+len(workloads)))
	require.Equal(t, []string{"BPlusTree", "4", "Footprint_SteadyState"}, rows[1][:3])

	for _, wl := range workloads {
		require.FileExists(t, filepath.Join(cfg.PlotDir, plotFileName("Workload_"+wl.Tag())))
	}
	prom, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), `bmark_bplustree_height{order="4"}`)
	require.Contains(t, string(prom), `bmark_op_latency_nanoseconds{config="4",structure="B-Tree",workload="Workload_OLTP"}`)
	require.Contains(t, string(prom), `bmark_heap_total_alloc_megabytes{config="sorted",structure="List",workload="Footprint_SteadyState"}`)
}

func TestVerify(t *testing.T) {
	cfg := verifyConfig{Ops: 3000, KeySpace: 300, Seed: 3, WithPebble: true}
	for _, order := range []int{3, 4, 7} {
		require.NoError(t, verify(order, cfg, zap.NewNop()), "order %d", order)
	}
	require.True(t, errors.Is(verify(2, cfg, zap.NewNop()), bplus.ErrInvalidOrder))
	require.Error(t, verify(4, verifyConfig{KeySpace: 0}, zap.NewNop()))
}

func TestPrintCommand(t *testing.T) {
	want, err := buildTree(4, []uint{10, 20, 5, 6, 12, 30, 7, 17}, []uint{6}, zap.NewNop())
	require.NoError(t, err)
	var expected bytes.Buffer
	require.NoError(t, want.Print(&expected))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"print", "--delete", "6", "--log-level", "error"})
	require.NoError(t, root.Execute())
	require.Equal(t, expected.String(), out.String())
	require.Contains(t, out.String(), "[Leaf]")
}

func TestPrintCommandDOT(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tree.dot")
	root := newRootCmd()
	root.SetArgs([]string{"print", "--order", "3", "--insert", "1,2,3,4,5", "--dot", file})
	require.NoError(t, root.Execute())
	dot, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(dot), "digraph")
	require.Contains(t, string(dot), "(LEAF)")
}

func TestPrintCommandRejectsOrder(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"print", "--order", "2"})
	require.Error(t, root.Execute())
}
