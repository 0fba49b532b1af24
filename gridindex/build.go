// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gridindex

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/trackexplorer/drive"
)

const (
	// DefaultPath is where the index is persisted by default.
	DefaultPath = "grid_list.tsv"
	// DefaultAppFolder is the drive folder holding the master listing.
	DefaultAppFolder = "trackExplorer"
	// DefaultListing is the name of the master listing spreadsheet.
	DefaultListing = "Model_grid_info"

	listingMimeType = "text/csv"
)

// Session is the part of *drive.Session used to build an index.
type Session interface {
	Resolver
	Refresh(ctx context.Context) error
	Export(ctx context.Context, id drive.ID, mimeType string) (io.ReadCloser, error)
}

// Options configures LoadOrBuild. Zero fields take their defaults.
type Options struct {
	// Path is the persisted index file.
	Path string
	// AppFolder and Listing name the folder and the spreadsheet
	// inside it that list every grid.
	AppFolder, Listing string
	// Force rebuilds the index even if a valid one is persisted.
	Force bool
}

func (o Options) withDefaults() Options {
	if o.Path == "" {
		o.Path = DefaultPath
	}
	if o.AppFolder == "" {
		o.AppFolder = DefaultAppFolder
	}
	if o.Listing == "" {
		o.Listing = DefaultListing
	}
	return o
}

// LoadOrBuild returns the grid index. It always re-derives the
// session's drive first. Unless opts.Force is set, an index persisted
// at opts.Path with every required column is returned as is: its IDs
// are trusted without contacting the drive. Otherwise the index is
// rebuilt with Build and persisted, in full, to opts.Path.
func LoadOrBuild(ctx context.Context, sess Session, opts Options) (*Index, error) {
	opts = opts.withDefaults()
	if err := sess.Refresh(ctx); err != nil {
		return nil, err
	}
	if !opts.Force {
		x, err := Load(ctx, opts.Path)
		switch {
		case err == nil:
			log.Printf("gridindex: loaded %d grids from %s", x.Len(), opts.Path)
			return x, nil
		case errors.Is(errors.NotExist, err):
			log.Printf("gridindex: no grid index at %s", opts.Path)
		case errors.Is(errors.Invalid, err):
			log.Error.Printf("gridindex: ignoring %s: %v", opts.Path, err)
		default:
			return nil, err
		}
	}
	x, err := Build(ctx, sess, opts.AppFolder, opts.Listing)
	if err != nil {
		return nil, err
	}
	if err := x.Save(ctx, opts.Path); err != nil {
		return nil, err
	}
	log.Printf("gridindex: saved %d grids to %s", x.Len(), opts.Path)
	return x, nil
}

// Build reads the master listing named listing from the folder
// appFolder and resolves the IDs of every grid it lists, in listing
// order. A grid whose IDs cannot be resolved is kept with absent IDs;
// of several rows naming the same grid only the first is kept. Build
// fails only if the listing itself cannot be read.
func Build(ctx context.Context, sess Session, appFolder, listing string) (*Index, error) {
	folder, err := sess.ResolveOne(ctx, drive.NewQuery().Kind(drive.Folder).Named(appFolder))
	if err != nil {
		return nil, errors.E("gridindex: locating folder", appFolder, err)
	}
	id, err := sess.ResolveOne(ctx, drive.NewQuery().InParent(folder).Named(listing))
	if err != nil {
		return nil, errors.E("gridindex: locating listing", listing, err)
	}
	rows, err := fetchListing(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	var (
		records = make([]Record, 0, len(rows))
		seen    = make(map[string]bool)
	)
	for _, row := range rows {
		if seen[row.Name] {
			log.Error.Printf("gridindex: ignoring duplicate listing row for grid %q", row.Name)
			continue
		}
		seen[row.Name] = true
		records = append(records, Record{
			Name:            row.Name,
			FolderName:      row.FolderName,
			ModelFolderName: row.ModelFolderName,
			SummaryFile:     row.SummaryFile,
		})
	}
	x, err := New(records)
	if err != nil {
		return nil, err
	}
	for i := range x.records {
		r := &x.records[i]
		h := ResolveHome(ctx, sess, r.FolderName, r.ModelFolderName, r.SummaryFile)
		r.BaseFolderID, r.ModelFolderID, r.SummaryFileID = h.BaseFolder, h.ModelFolder, h.File
		if !r.Resolved() {
			log.Printf("gridindex: grid %q partially resolved: base %s, model %s, summary %s",
				r.Name, r.BaseFolderID, r.ModelFolderID, r.SummaryFileID)
		}
	}
	return x, nil
}

// listingRow is a row of the master listing. The listing may carry
// other columns; they are ignored.
type listingRow struct {
	Name            string `tsv:"name"`
	FolderName      string `tsv:"folder_name"`
	ModelFolderName string `tsv:"model_folder_name"`
	SummaryFile     string `tsv:"summary_file"`
}

func fetchListing(ctx context.Context, sess Session, id drive.ID) (_ []listingRow, err error) {
	rc, err := sess.Export(ctx, id, listingMimeType)
	if err != nil {
		return nil, err
	}
	defer errors.CleanUp(rc.Close, &err)
	r := tsv.NewReader(rc)
	r.Comma = ','
	r.LazyQuotes = true
	r.HasHeaderRow = true
	r.UseHeaderNames = true
	var rows []listingRow
	for {
		var row listingRow
		err := r.Read(&row)
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, errors.E(errors.Invalid, "gridindex: parsing listing", err)
		}
		rows = append(rows, row)
	}
}
