// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package gridindex maintains the grid index: a flat table mapping
// each grid name to its folder and summary file names and to the
// remote IDs those names resolve to. The index is built once from a
// master listing stored on the drive, persisted as a TSV file, and
// reused by later processes without contacting the drive.
package gridindex

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// Columns lists the columns of a persisted index, in order.
var Columns = []string{
	"name",
	"folder_name",
	"model_folder_name",
	"summary_file",
	"base_folder_id",
	"model_folder_id",
	"summary_file_id",
}

// Index is an ordered set of grid records keyed by name.
type Index struct {
	records []Record
	byName  map[string]int
}

// New returns an index of records, in the given order. Grid names
// must be unique.
func New(records []Record) (*Index, error) {
	x := &Index{
		records: records,
		byName:  make(map[string]int, len(records)),
	}
	for i, r := range records {
		if _, ok := x.byName[r.Name]; ok {
			return nil, errors.E(errors.Invalid, "gridindex: duplicate grid", r.Name)
		}
		x.byName[r.Name] = i
	}
	return x, nil
}

// Len returns the number of grids.
func (x *Index) Len() int { return len(x.records) }

// Lookup returns the record of the named grid.
func (x *Index) Lookup(name string) (Record, bool) {
	i, ok := x.byName[name]
	if !ok {
		return Record{}, false
	}
	return x.records[i], true
}

// Records returns a copy of the records in index order.
func (x *Index) Records() []Record {
	return append([]Record(nil), x.records...)
}

// Names returns the grid names in index order.
func (x *Index) Names() []string {
	names := make([]string, len(x.records))
	for i, r := range x.records {
		names[i] = r.Name
	}
	return names
}

// Load reads an index persisted by Save. It returns an error of kind
// errors.NotExist if there is no file at path, and of kind
// errors.Invalid if the file lacks any of Columns or cannot be
// parsed.
func Load(ctx context.Context, path string) (*Index, error) {
	data, err := file.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := checkHeader(data); err != nil {
		return nil, errors.E(path, err)
	}
	r := tsv.NewReader(bytes.NewReader(data))
	r.LazyQuotes = true
	r.HasHeaderRow = true
	r.UseHeaderNames = true
	var records []Record
	for {
		var rec Record
		err := r.Read(&rec)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.E(errors.Invalid, path, err)
		}
		records = append(records, rec)
	}
	return New(records)
}

func checkHeader(data []byte) error {
	r := tsv.NewReader(bytes.NewReader(data))
	r.LazyQuotes = true
	header, err := r.Reader.Read()
	if err == io.EOF {
		return errors.E(errors.Invalid, "empty index")
	}
	if err != nil {
		return errors.E(errors.Invalid, err)
	}
	have := make(map[string]bool, len(header))
	for _, col := range header {
		have[col] = true
	}
	var missing []string
	for _, col := range Columns {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return errors.E(errors.Invalid, "missing columns", strings.Join(missing, ","))
	}
	return nil
}

// Save writes the index to path as TSV with a header row. The file
// is replaced only if every record is written.
func (x *Index) Save(ctx context.Context, path string) error {
	for _, r := range x.records {
		if err := checkFields(r); err != nil {
			return err
		}
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	if err := x.write(f.Writer(ctx)); err != nil {
		f.Discard(ctx)
		return errors.E("gridindex: writing", path, err)
	}
	return f.Close(ctx)
}

func (x *Index) write(out io.Writer) error {
	if len(x.records) == 0 {
		w := tsv.NewWriter(out)
		for _, col := range Columns {
			w.WriteString(col)
		}
		if err := w.EndLine(); err != nil {
			return err
		}
		return w.Flush()
	}
	w := tsv.NewRowWriter(out)
	for i := range x.records {
		if err := w.Write(&x.records[i]); err != nil {
			return err
		}
	}
	return w.Flush()
}

// checkFields rejects values that would not read back unchanged.
func checkFields(r Record) error {
	for _, v := range []string{
		r.Name, r.FolderName, r.ModelFolderName, r.SummaryFile,
		string(r.BaseFolderID), string(r.ModelFolderID), string(r.SummaryFileID),
	} {
		// Fields are written unquoted, so a quote would be read back as
		// the start of a quoted field.
		if strings.ContainsAny(v, "\t\r\n\"") {
			return errors.E(errors.Invalid, "gridindex: field of grid", r.Name, "contains a tab, newline or quote")
		}
	}
	return nil
}
