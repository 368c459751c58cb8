package main

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	bplus "github.com/btree-query-bench/keyindex/index/bplustree"
)

// config holds everything the run command needs. Flags bind straight into it.
type config struct {
	Scale       int
	RangeOps    int
	Orders      []int
	Degrees     []int
	WithPebble  bool
	PebbleDir   string
	WithList    bool
	Seed        int64
	Out         string
	PlotDir     string
	MetricsFile string
}

func defaultConfig() config {
	return config{
		Scale:      1000000,
		RangeOps:   100,
		Orders:     []int{8, 32, 128},
		Degrees:    []int{8, 32, 128},
		WithPebble: true,
		Seed:       1,
		Out:        "final_thesis_results.csv",
	}
}

func (c *config) validate() error {
	if c.Scale <= 0 {
		return errors.Newf("scale must be positive, got %d", c.Scale)
	}
	if c.RangeOps < 0 {
		return errors.Newf("range-ops must not be negative, got %d", c.RangeOps)
	}
	for _, o := range c.Orders {
		if o < bplus.MinOrder {
			return errors.Wrapf(bplus.ErrInvalidOrder, "--orders %d", o)
		}
	}
	for _, d := range c.Degrees {
		if d < 2 {
			return errors.Newf("btree degree must be at least 2, got %d", d)
		}
	}
	if c.Out == "" {
		return errors.New("--out must name a CSV file")
	}
	return nil
}

func newLogger(level string, dev bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}
	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
