package main

import (
	"math/rand"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/btree-query-bench/keyindex/index"
	bplus "github.com/btree-query-bench/keyindex/index/bplustree"
	"github.com/btree-query-bench/keyindex/index/btree"
	"github.com/btree-query-bench/keyindex/index/lsm"
)

type verifyConfig struct {
	Orders     []int
	Ops        int
	KeySpace   int
	Seed       int64
	WithPebble bool
}

func newVerifyCmd(logger func() *zap.Logger) *cobra.Command {
	cfg := verifyConfig{
		Orders:   []int{3, 4, 5, 8, 32},
		Ops:      20000,
		KeySpace: 2000,
		Seed:     1,
	}
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay random inserts and deletes against the B+ tree and reference indexes",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			log := logger()
			for _, order := range cfg.Orders {
				if err := verify(order, cfg, log); err != nil {
					return err
				}
				log.Info("order verified", zap.Int("order", order), zap.Int("ops", cfg.Ops))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntSliceVar(&cfg.Orders, "orders", cfg.Orders, "B+ tree orders to verify")
	f.IntVar(&cfg.Ops, "ops", cfg.Ops, "random operations per order")
	f.IntVar(&cfg.KeySpace, "key-space", cfg.KeySpace, "keys are drawn from [0, key-space)")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	f.BoolVar(&cfg.WithPebble, "pebble", cfg.WithPebble, "also compare against an in-memory Pebble store")
	return cmd
}

// verify applies the same random operations to a B+ tree of the given order
// and to every reference index, checking the tree's structure after each
// step. It returns the first divergence.
func verify(order int, cfg verifyConfig, log *zap.Logger) error {
	if cfg.KeySpace <= 0 || cfg.Ops < 0 {
		return errors.Newf("invalid verify config: key-space %d, ops %d", cfg.KeySpace, cfg.Ops)
	}
	tr, err := bplus.New(order, bplus.WithLogger(log.Named("bplus")))
	if err != nil {
		return err
	}
	refs := map[string]index.Index{"btree": btree.NewBTree(8)}
	if cfg.WithPebble {
		db, err := lsm.Open("")
		if err != nil {
			return err
		}
		defer db.Close()
		refs["pebble"] = db
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	for step := 0; step < cfg.Ops; step++ {
		key := uint64(rng.Intn(cfg.KeySpace))
		insert := rng.Intn(2) == 0

		var got bool
		if insert {
			got = !tr.Contains(key)
			tr.Insert(key)
		} else {
			got = tr.Delete(key)
		}
		if err := tr.Check(); err != nil {
			return errors.Wrapf(err, "order %d step %d", order, step)
		}

		for name, ref := range refs {
			var want bool
			if insert {
				present, err := ref.Contains(key)
				if err != nil {
					return err
				}
				want = !present
				err = ref.Insert(key)
				if err != nil {
					return err
				}
			} else if want, err = ref.Delete(key); err != nil {
				return err
			}
			if got != want {
				return errors.Newf("order %d step %d: %s of key %d changed the tree: %t, %s: %t",
					order, step, opName(insert), key, got, name, want)
			}
		}

		if step%500 == 0 || step == cfg.Ops-1 {
			if err := compareScans(tr, refs, cfg.KeySpace); err != nil {
				return errors.Wrapf(err, "order %d step %d", order, step)
			}
		}
	}
	return nil
}

func compareScans(tr *bplus.Tree, refs map[string]index.Index, keySpace int) error {
	got := tr.Scan(0, keySpace+1)
	for name, ref := range refs {
		want, err := ref.Scan(0, keySpace+1)
		if err != nil {
			return err
		}
		if !slices.Equal(got, want) {
			return errors.Newf("full scan differs from %s: %d keys, want %d", name, len(got), len(want))
		}
	}
	return nil
}

func opName(insert bool) string {
	if insert {
		return "insert"
	}
	return "delete"
}
