// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ladderplot

import (
	"image"
	"image/color"
	"image/draw"
	"sort"

	xdraw "golang.org/x/image/draw"

	"github.com/aclements/go-ladder/history"
)

const (
	cellSize  = 4
	heatScale = 8 // final cell is cellSize*heatScale pixels square
)

var (
	colorUnchanged = color.RGBA{40, 40, 40, 255}
	colorChanged   = color.RGBA{220, 60, 60, 255}
	colorMissing   = color.RGBA{90, 90, 160, 255}
)

// DiffHeatmap renders a one-row-per-tag thumbnail where each cell is
// colorChanged if the tag's raw value differs between prev and next,
// colorMissing if the tag is absent from either snapshot, and
// colorUnchanged otherwise. Tags are sorted by name for a stable
// layout across calls. Grounded on srgb/main.go's
// golang.org/x/image/draw.BiLinear.Scale use for resizing a decoded
// image; here NearestNeighbor.Scale upsamples a strip of
// cellSize-pixel cells, one per tag, by heatScale into human-visible
// cellSize*heatScale squares.
func DiffHeatmap(prev, next history.Snapshot) image.Image {
	names := make(map[string]bool, len(prev.Tags)+len(next.Tags))
	for n := range prev.Tags {
		names[n] = true
	}
	for n := range next.Tags {
		names[n] = true
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	small := image.NewRGBA(image.Rect(0, 0, cellSize, cellSize*len(sorted)))
	for i, name := range sorted {
		pv, pok := prev.Tags[name]
		nv, nok := next.Tags[name]
		var c color.RGBA
		switch {
		case !pok || !nok:
			c = colorMissing
		case !rawEqual(pv, nv):
			c = colorChanged
		default:
			c = colorUnchanged
		}
		draw.Draw(small, image.Rect(0, i*cellSize, cellSize, (i+1)*cellSize), &image.Uniform{C: c}, image.Point{}, draw.Src)
	}

	sb := small.Bounds()
	big := image.NewRGBA(image.Rect(0, 0, sb.Dx()*heatScale, sb.Dy()*heatScale))
	xdraw.NearestNeighbor.Scale(big, big.Bounds(), small, sb, xdraw.Over, nil)
	return big
}

// rawEqual compares two history.Snapshot tag values as decoded from
// JSON (float64/bool/string/nil), which is all history.Import ever
// produces.
func rawEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case nil:
		return b == nil
	default:
		return false
	}
}
