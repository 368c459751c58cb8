package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotResults writes one bar chart per workload into dir, comparing the
// latency of every structure/config pair.
func plotResults(dir string, results []BenchResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create plot dir")
	}

	var ops []string
	byOp := map[string][]BenchResult{}
	for _, r := range results {
		if _, ok := byOp[r.Operation]; !ok {
			ops = append(ops, r.Operation)
		}
		byOp[r.Operation] = append(byOp[r.Operation], r)
	}

	var files []string
	for _, op := range ops {
		rows := byOp[op]
		p := plot.New()
		p.Title.Text = op
		p.Y.Label.Text = "ns/op"

		values := make(plotter.Values, len(rows))
		names := make([]string, len(rows))
		for i, r := range rows {
			values[i] = float64(r.LatencyNs)
			names[i] = r.Name + " " + r.Config
		}
		bars, err := plotter.NewBarChart(values, vg.Points(18))
		if err != nil {
			return files, errors.Wrapf(err, "bar chart for %s", op)
		}
		p.Add(bars)
		p.NominalX(names...)

		file := filepath.Join(dir, plotFileName(op))
		width := vg.Length(len(rows)+2) * vg.Inch
		if err := p.Save(width, 4*vg.Inch, file); err != nil {
			return files, errors.Wrapf(err, "save %s", file)
		}
		files = append(files, file)
	}
	return files, nil
}

// plotFileName turns "OLTP (90/10)" into "oltp_90_10.png".
func plotFileName(op string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, op)
	name = strings.Trim(name, "_")
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	return name + ".png"
}
