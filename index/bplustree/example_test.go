package bplus_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	bplus "github.com/btree-query-bench/keyindex/index/bplustree"
)

func Example() {
	tr, err := bplus.New(4)
	if err != nil {
		panic(err)
	}
	for _, k := range []uint64{10, 20, 5, 6, 12, 30, 7, 17} {
		tr.Insert(k)
	}
	fmt.Println(tr.Scan(0, 10))
	fmt.Println(tr.Delete(12), tr.Contains(12))
	_ = tr.Print(os.Stdout)
	// Output:
	// [5 6 7 10 12 17 20 30]
	// true false
	// [Internal] 10 20
	//   [Leaf] 5 6 7
	//   [Leaf] 10 17
	//   [Leaf] 20 30
}

func TestExportDOT(t *testing.T) {
	tr, err := bplus.New(3)
	require.NoError(t, err)
	for k := uint64(1); k <= 7; k++ {
		tr.Insert(k)
	}
	var sb strings.Builder
	require.NoError(t, tr.ExportDOT(&sb))
	dot := sb.String()
	require.True(t, strings.HasPrefix(dot, "digraph BPlusTree {"))
	require.True(t, strings.HasSuffix(dot, "}\n"))
	require.Equal(t, 4, strings.Count(dot, "(LEAF)"))
	require.Equal(t, 3, strings.Count(dot, "(INTERNAL)"))
	require.Equal(t, 3, strings.Count(dot, "style=dashed"))
	require.Equal(t, 6, strings.Count(dot, ":f"))
}

func TestAsIndex(t *testing.T) {
	tr, err := bplus.New(5)
	require.NoError(t, err)
	idx := bplus.AsIndex(tr)
	for k := uint64(0); k < 20; k++ {
		require.NoError(t, idx.Insert(k))
	}
	ok, err := idx.Delete(3)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = idx.Contains(3)
	require.NoError(t, err)
	require.False(t, ok)
	keys, err := idx.Scan(2, 3)
	require.NoError(t, err)
	require.Equal(t, []uint64{2, 4, 5}, keys)
	require.NoError(t, idx.Close())
}
