package main

import (
	"math/rand"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/btree-query-bench/keyindex/index"
)

type WorkloadType string

const (
	OLTP      WorkloadType = "OLTP (90/10)"
	OLAP      WorkloadType = "OLAP (10/90)"
	Churn     WorkloadType = "Churn (50/50)"
	Reporting WorkloadType = "Reporting (Range)"
)

var workloads = []WorkloadType{OLTP, OLAP, Churn, Reporting}

// Tag is the short name used in result rows, e.g. "OLTP".
func (w WorkloadType) Tag() string {
	if f := strings.Fields(string(w)); len(f) > 0 {
		return f[0]
	}
	return string(w)
}

// scanLength is how many keys a Reporting operation reads.
const scanLength = 100

// ExecuteWorkload runs a mixed distribution of ops over keys in [0, keySpace).
//
//	OLTP       90% Contains, 10% Insert
//	OLAP       10% Contains, 90% Insert
//	Churn      50% Insert,   50% Delete
//	Reporting  Scan of scanLength keys from a random start
func ExecuteWorkload(idx index.Index, wType WorkloadType, ops int, keySpace int, rng *rand.Rand) error {
	for i := 0; i < ops; i++ {
		choice := rng.Intn(100)
		key := uint64(rng.Intn(keySpace))

		var err error
		switch wType {
		case OLTP:
			if choice < 90 {
				_, err = idx.Contains(key)
			} else {
				err = idx.Insert(key)
			}
		case OLAP:
			if choice < 10 {
				_, err = idx.Contains(key)
			} else {
				err = idx.Insert(key)
			}
		case Churn:
			if choice < 50 {
				err = idx.Insert(key)
			} else {
				_, err = idx.Delete(key)
			}
		case Reporting:
			_, err = idx.Scan(key, scanLength)
		default:
			return errors.Newf("unknown workload %q", wType)
		}
		if err != nil {
			return errors.Wrapf(err, "%s op %d", wType, i)
		}
	}
	return nil
}
