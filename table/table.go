// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package table defines the row-oriented tables that downloaded
// artifacts are parsed into, and the Parser interface that turns a
// local file into a Table.
package table

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// Table is a parsed tabular artifact. Every row has len(Columns)
// fields.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Column returns the values of the named column, or false if the
// table has no such column.
func (t *Table) Column(name string) ([]string, bool) {
	for i, c := range t.Columns {
		if c != name {
			continue
		}
		vals := make([]string, len(t.Rows))
		for j, row := range t.Rows {
			vals[j] = row[i]
		}
		return vals, true
	}
	return nil, false
}

// Parser parses the file at a local path into a Table.
type Parser interface {
	Parse(ctx context.Context, path string) (*Table, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(ctx context.Context, path string) (*Table, error)

// Parse implements Parser.
func (f ParserFunc) Parse(ctx context.Context, path string) (*Table, error) {
	return f(ctx, path)
}

// CSV parses comma-separated files whose first line names the
// columns.
var CSV Parser = ParserFunc(parseCSV)

func parseCSV(ctx context.Context, path string) (_ *Table, err error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer errors.CleanUpCtx(ctx, f.Close, &err)
	t, err := ReadCSV(f.Reader(ctx))
	if err != nil {
		return nil, errors.E("parse", path, err)
	}
	return t, nil
}

// ReadCSV reads a comma-separated table with a header row from r.
func ReadCSV(r io.Reader) (*Table, error) {
	tr := tsv.NewReader(r)
	tr.Comma = ','
	tr.ReuseRecord = false
	tr.LazyQuotes = true
	header, err := tr.Reader.Read()
	if err == io.EOF {
		return nil, errors.E(errors.Invalid, "empty file: could not read the header row")
	}
	if err != nil {
		return nil, errors.E(errors.Invalid, err)
	}
	t := &Table{Columns: header}
	for {
		row, err := tr.Reader.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, errors.E(errors.Invalid, err)
		}
		t.Rows = append(t.Rows, row)
	}
}
