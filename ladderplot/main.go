// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ladderplot renders a JSON history.Export (as produced by
// runner.Runner.History().Export(), SPEC_FULL.md 4.9.2) into an SVG
// time series or, with -heatmap, a PNG diff heatmap of the first two
// snapshots. Flag layout grounded on benchplot/main.go's -o/-table
// switches.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/aclements/go-ladder/history"
	"github.com/aclements/go-ladder/ladderplot"
)

func main() {
	log.SetPrefix("ladderplot: ")
	log.SetFlags(0)

	var (
		flagTags    = flag.String("tags", "", "comma-separated tag names to plot (required for SVG mode)")
		flagOut     = flag.String("o", "", "write output to `file` (default: stdout)")
		flagHeatmap = flag.Bool("heatmap", false, "write a PNG diff heatmap of the first two snapshots instead of an SVG series")
		flagWidth   = flag.Int("width", 800, "SVG width in pixels")
		flagHeight  = flag.Int("height", 400, "SVG height in pixels")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [history.json]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	path := "-"
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	data, err := readAll(path)
	if err != nil {
		log.Fatal(err)
	}
	snaps, err := history.Import(data)
	if err != nil {
		log.Fatal(err)
	}

	out := os.Stdout
	if *flagOut != "" {
		out, err = os.Create(*flagOut)
		if err != nil {
			log.Fatal(err)
		}
		defer out.Close()
	}

	if *flagHeatmap {
		if len(snaps) < 2 {
			log.Fatal("heatmap mode needs at least 2 snapshots")
		}
		img := ladderplot.DiffHeatmap(snaps[0], snaps[1])
		if err := png.Encode(out, img); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *flagTags == "" {
		flag.Usage()
		os.Exit(2)
	}
	tags := strings.Split(*flagTags, ",")
	plot, err := ladderplot.TimeSeries(snaps, tags)
	if err != nil {
		log.Fatal(err)
	}
	if err := ladderplot.WriteSVG(plot, out, *flagWidth, *flagHeight); err != nil {
		log.Fatal(err)
	}
}

func readAll(path string) ([]byte, error) {
	if path == "-" {
		return ioutil.ReadAll(os.Stdin)
	}
	return ioutil.ReadFile(path)
}
