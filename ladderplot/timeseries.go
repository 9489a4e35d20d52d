// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ladderplot renders a history.Export (SPEC_FULL.md 4.9.2)
// into visualizations: an SVG time series of selected tags over scan
// history, and a PNG heatmap highlighting which tags changed between
// two snapshots. Grounded on benchplot/plot.go's table.Grouping ->
// gg.Plot pipeline for the SVG series, and srgb/main.go's
// golang.org/x/image/draw scaling idiom for the PNG.
package ladderplot

import (
	"fmt"
	"io"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"github.com/aclements/go-ladder/history"
)

func asFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		if len(x) == 0 {
			return 0, false
		}
		return float64(x[0]), true
	default:
		return 0, false
	}
}

// TimeSeries builds a gg.Plot of each named tag's value across snaps,
// oldest first (the order history.Export already produces). Numbers
// plot as-is, bools as 0/1 and non-empty strings as their first
// byte; missing, nil, empty-string or other-typed values at a given
// scan are omitted from that tag's line rather than plotted as zero.
func TimeSeries(snaps []history.Snapshot, tagNames []string) (*gg.Plot, error) {
	if len(tagNames) == 0 {
		return nil, fmt.Errorf("ladderplot: at least one tag name is required")
	}

	var scanIdx []int
	var tagCol []string
	var valueCol []float64
	for i, s := range snaps {
		for _, name := range tagNames {
			raw, ok := s.Tags[name]
			if !ok {
				continue
			}
			f, ok := asFloat(raw)
			if !ok {
				continue
			}
			scanIdx = append(scanIdx, i)
			tagCol = append(tagCol, name)
			valueCol = append(valueCol, f)
		}
	}

	data := table.NewBuilder(nil).
		Add("scan", scanIdx).
		Add("tag", tagCol).
		Add("value", valueCol).
		Done()

	plot := gg.NewPlot(data)
	plot.SetScale("y", gg.NewLinearScaler().Include(0))
	plot.Add(gg.LayerLines{X: "scan", Y: "value", Color: "tag"})
	plot.Add(gg.Title("tag history"))
	return plot, nil
}

// WriteSVG renders plot as an SVG of the given pixel size to w,
// matching benchplot/main.go's p.WriteSVG(f, width, height) call.
func WriteSVG(plot *gg.Plot, w io.Writer, width, height int) error {
	return plot.WriteSVG(w, width, height)
}
