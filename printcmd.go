package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	bplus "github.com/btree-query-bench/keyindex/index/bplustree"
)

func newPrintCmd(logger func() *zap.Logger) *cobra.Command {
	var (
		order   int
		inserts []uint
		deletes []uint
		dotFile string
	)
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Build a tree from --insert and --delete and render its structure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := buildTree(order, inserts, deletes, logger())
			if err != nil {
				return err
			}
			if dotFile == "" {
				return tr.Print(cmd.OutOrStdout())
			}

			f, err := os.Create(dotFile)
			if err != nil {
				return errors.Wrap(err, "create dot file")
			}
			defer f.Close()
			if err := tr.ExportDOT(f); err != nil {
				return errors.Wrapf(err, "export %s", dotFile)
			}
			logger().Info("tree exported", zap.String("file", dotFile), zap.Int("height", tr.Height()))
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&order, "order", 4, "maximum children per internal node")
	f.UintSliceVar(&inserts, "insert", []uint{10, 20, 5, 6, 12, 30, 7, 17}, "keys to insert, in order")
	f.UintSliceVar(&deletes, "delete", nil, "keys to delete after the inserts, in order")
	f.StringVar(&dotFile, "dot", "", "write a Graphviz file instead of the text rendering")
	return cmd
}

// buildTree applies the inserts and then the deletes with invariant checks on.
func buildTree(order int, inserts, deletes []uint, log *zap.Logger) (*bplus.Tree, error) {
	tr, err := bplus.New(order, bplus.WithLogger(log), bplus.WithInvariantChecks(true))
	if err != nil {
		return nil, err
	}
	for _, k := range inserts {
		tr.Insert(uint64(k))
	}
	for _, k := range deletes {
		if !tr.Delete(uint64(k)) {
			log.Warn("key not present", zap.Uint("key", k))
		}
	}
	return tr, nil
}
