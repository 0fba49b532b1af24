// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package track retrieves grid artifacts: the summary file of a grid
// and the individual track files of its models. A local copy in the
// cache directory always wins; otherwise the artifact is located
// through the grid index, falling back to a search of the whole drive,
// and downloaded.
//
// Lookups that find nothing return an error of kind errors.NotExist.
package track

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/trackexplorer/drive"
	"github.com/grailbio/trackexplorer/gridindex"
	"github.com/grailbio/trackexplorer/table"
)

// Session is the part of *drive.Session used by the Resolver.
type Session interface {
	gridindex.Resolver
	List(ctx context.Context, q drive.Query) (drive.Listing, error)
	Download(ctx context.Context, id drive.ID) (io.ReadCloser, error)
}

// Options configures a Resolver. Zero fields take their defaults.
type Options struct {
	// CacheDir is checked for local copies of artifacts. It defaults
	// to DefaultCacheDir.
	CacheDir string
	// TrackParser parses track files; SummaryParser parses summary
	// files. Both default to table.CSV.
	TrackParser, SummaryParser table.Parser
}

// Resolver locates and retrieves artifacts of the grids in an index.
// It is not safe for concurrent use.
type Resolver struct {
	sess          Session
	index         *gridindex.Index
	cacheDir      string
	trackParser   table.Parser
	summaryParser table.Parser
}

// New returns a resolver for the grids in index.
func New(sess Session, index *gridindex.Index, opts Options) *Resolver {
	r := &Resolver{
		sess:          sess,
		index:         index,
		cacheDir:      opts.CacheDir,
		trackParser:   opts.TrackParser,
		summaryParser: opts.SummaryParser,
	}
	if r.cacheDir == "" {
		r.cacheDir = DefaultCacheDir
	}
	if r.trackParser == nil {
		r.trackParser = table.CSV
	}
	if r.summaryParser == nil {
		r.summaryParser = table.CSV
	}
	return r
}

// Index returns the grid index the resolver works from.
func (r *Resolver) Index() *gridindex.Index { return r.index }

// TrackOptions qualifies a track lookup.
type TrackOptions struct {
	// FolderName and ModelFolderName name the track's base and model
	// folders. They are read from the grid's summary file by the
	// caller, and are used only for grids whose model folder is
	// derived from the summary (see gridindex.FolderSource). Without
	// them such tracks are found by searching the whole drive.
	FolderName, ModelFolderName string
	// SavePath, if set, makes Track store the track at this path
	// instead of parsing it.
	SavePath string
}

// Result is the outcome of a successful Track call. Exactly one of
// its fields is set.
type Result struct {
	// Table is the parsed track.
	Table *table.Table
	// Saved is the base name of TrackOptions.SavePath, once written.
	Saved string
}

// Track retrieves the track file called name of the given grid.
//
// A copy of name in the cache directory is parsed and returned
// without contacting the drive. Otherwise the file is looked up in
// the grid's model folder and, failing that, anywhere in the drive.
// If it is found nowhere, Track returns an error of kind
// errors.NotExist.
func (r *Resolver) Track(ctx context.Context, grid, name string, opts TrackOptions) (Result, error) {
	path, ok, err := r.cached(ctx, name)
	if err != nil {
		return Result{}, err
	}
	if ok {
		log.Printf("track: loading local %s", path)
		t, err := r.trackParser.Parse(ctx, path)
		if err != nil {
			return Result{}, err
		}
		return Result{Table: t}, nil
	}
	rec, ok := r.index.Lookup(grid)
	if !ok {
		return Result{}, errors.E(errors.NotExist, "track: unknown grid", grid)
	}
	id, err := r.find(ctx, r.modelFolder(ctx, rec, opts), name)
	if err != nil {
		return Result{}, err
	}
	if opts.SavePath != "" {
		saved, err := r.save(ctx, id, opts.SavePath)
		if err != nil {
			return Result{}, err
		}
		return Result{Saved: saved}, nil
	}
	t, err := r.fetch(ctx, id, name, r.trackParser)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: t}, nil
}

// Summary retrieves the summary file of the given grid, preferring a
// copy in the cache directory. It returns an error of kind
// errors.NotExist if the grid is unknown or its summary file was not
// resolved when the index was built.
func (r *Resolver) Summary(ctx context.Context, grid string) (*table.Table, error) {
	rec, ok := r.index.Lookup(grid)
	if !ok {
		return nil, errors.E(errors.NotExist, "track: unknown grid", grid)
	}
	path, ok, err := r.cached(ctx, rec.SummaryFile)
	if err != nil {
		return nil, err
	}
	if ok {
		log.Printf("track: loading local grid %s", path)
		return r.summaryParser.Parse(ctx, path)
	}
	if !rec.SummaryFileID.Valid() {
		return nil, errors.E(errors.NotExist, "track: summary file", rec.SummaryFile, "of grid", grid, "is not resolved")
	}
	return r.fetch(ctx, rec.SummaryFileID, rec.SummaryFile, r.summaryParser)
}

// modelFolder returns the folder holding the grid's tracks, absent if
// it cannot be determined. Folders derived from the summary are
// resolved from the caller's names on every call.
func (r *Resolver) modelFolder(ctx context.Context, rec gridindex.Record, opts TrackOptions) drive.ID {
	src := rec.ModelFolder()
	if !src.Derived() {
		return src.ID()
	}
	if opts.FolderName == "" || opts.ModelFolderName == "" {
		log.Printf("track: grid %s has no folder names for its model folder, relying on a drive search", rec.Name)
		return ""
	}
	log.Printf("track: deriving model folder %s/%s", opts.FolderName, opts.ModelFolderName)
	_, model := gridindex.ResolveModelFolder(ctx, r.sess, opts.FolderName, opts.ModelFolderName)
	return model
}

// find returns the ID of the file called name in folder or, if there
// is none, of the first file called name anywhere in the drive.
func (r *Resolver) find(ctx context.Context, folder drive.ID, name string) (drive.ID, error) {
	list, err := r.sess.List(ctx, drive.NewQuery().InParent(folder).Named(name))
	if err != nil {
		log.Error.Printf("track: looking up %s in folder %s: %v", name, folder, err)
	}
	if len(list.Objects) > 0 {
		return list.Objects[0].ID, nil
	}
	log.Printf("track: %s not found in folder %s, searching the whole drive", name, folder)
	list, err = r.sess.List(ctx, drive.NewQuery().Named(name))
	if err != nil {
		log.Error.Printf("track: searching for %s: %v", name, err)
		return "", errors.E(errors.NotExist, "track: searching for", name, errors.E(errors.Remote, err))
	}
	if list.Incomplete {
		log.Error.Printf("track: warning: search for %s was incomplete", name)
	}
	if len(list.Objects) == 0 {
		return "", errors.E(errors.NotExist, "track:", name, "not found in drive")
	}
	return list.Objects[0].ID, nil
}
