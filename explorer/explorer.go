// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package explorer wires a drive session, the grid index and the
// track resolver together from a Config.
package explorer

import (
	"context"

	"github.com/grailbio/base/log"
	"github.com/grailbio/trackexplorer/drive"
	"github.com/grailbio/trackexplorer/gridindex"
	"github.com/grailbio/trackexplorer/track"
)

// Explorer gives access to the grids of one drive.
type Explorer struct {
	*track.Resolver
	// Session is the drive session shared by the index and the
	// resolver.
	Session *drive.Session
}

// Open authenticates with cfg.Credentials, opens the drive named
// cfg.Drive and loads its grid index, rebuilding it if force is set or
// no valid index is persisted at cfg.Index.
func Open(ctx context.Context, cfg Config, force bool) (*Explorer, error) {
	sess, err := drive.Dial(ctx, cfg.Credentials, cfg.Drive)
	if err != nil {
		return nil, err
	}
	return OpenSession(ctx, sess, cfg, force)
}

// OpenSession is like Open but uses an existing session. The
// credential and drive settings of cfg are ignored.
func OpenSession(ctx context.Context, sess *drive.Session, cfg Config, force bool) (*Explorer, error) {
	index, err := gridindex.LoadOrBuild(ctx, sess, gridindex.Options{
		Path:      cfg.Index,
		AppFolder: cfg.AppFolder,
		Listing:   cfg.Listing,
		Force:     force,
	})
	if err != nil {
		return nil, err
	}
	log.Debug.Printf("explorer: %d grids on drive %q (%s)", index.Len(), sess.Name(), sess.Drive())
	return &Explorer{
		Resolver: track.New(sess, index, track.Options{CacheDir: cfg.CacheDir}),
		Session:  sess,
	}, nil
}
