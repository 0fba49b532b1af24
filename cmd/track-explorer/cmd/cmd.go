// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package cmd implements the track-explorer subcommands. Each writes
// tab-separated output to out.
package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/gobwas/glob"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/must"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/trackexplorer/explorer"
	"github.com/grailbio/trackexplorer/table"
	"github.com/grailbio/trackexplorer/track"
)

// Index prints the number of grids in the index and how many of them
// were fully resolved.
func Index(ctx context.Context, out io.Writer, x *explorer.Explorer) error {
	var resolved int
	for _, r := range x.Index().Records() {
		if r.Resolved() {
			resolved++
		}
	}
	_, err := fmt.Fprintf(out, "%d grids, %d resolved\n", x.Index().Len(), resolved)
	return err
}

// List prints the index records whose grid name matches pattern, a
// glob as defined by https://github.com/gobwas/glob. An empty pattern
// matches every grid.
func List(ctx context.Context, out io.Writer, x *explorer.Explorer, pattern string) error {
	if pattern == "" {
		pattern = "*"
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return errors.E(errors.Invalid, "list: bad pattern", pattern, err)
	}
	w := tsv.NewWriter(out)
	for _, r := range x.Index().Records() {
		if !g.Match(r.Name) {
			continue
		}
		w.WriteString(r.Name)
		w.WriteString(r.FolderName)
		w.WriteString(r.ModelFolder().String())
		w.WriteString(r.SummaryFile)
		w.WriteString(strconv.FormatBool(r.Resolved()))
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Summary prints the summary table of grid.
func Summary(ctx context.Context, out io.Writer, x *explorer.Explorer, grid string) error {
	t, err := x.Summary(ctx, grid)
	if err != nil {
		return err
	}
	return writeTable(out, t, nil)
}

// Track prints the track called name of grid, restricted to columns
// if any are given. If opts.SavePath is set the track is saved there
// instead and its base name is printed.
func Track(ctx context.Context, out io.Writer, x *explorer.Explorer, grid, name string, opts track.TrackOptions, columns []string) error {
	res, err := x.Track(ctx, grid, name, opts)
	if err != nil {
		return err
	}
	if res.Saved != "" {
		_, err = fmt.Fprintf(out, "saved %s\n", res.Saved)
		return err
	}
	return writeTable(out, res.Table, columns)
}

// writeTable writes t, or only the named columns of t, with a header
// line.
func writeTable(out io.Writer, t *table.Table, columns []string) error {
	if len(columns) == 0 {
		columns = t.Columns
	}
	cols := make([][]string, len(columns))
	for i, name := range columns {
		col, ok := t.Column(name)
		if !ok {
			return errors.E(errors.NotExist, "no column", name)
		}
		must.Truef(len(col) == t.Len(), "column %s has %d values, want %d", name, len(col), t.Len())
		cols[i] = col
	}
	w := tsv.NewWriter(out)
	for _, name := range columns {
		w.WriteString(name)
	}
	if err := w.EndLine(); err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		for _, col := range cols {
			w.WriteString(col[i])
		}
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return w.Flush()
}
