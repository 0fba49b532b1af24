// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package track

import (
	"context"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/trackexplorer/drive"
	"github.com/grailbio/trackexplorer/table"
)

// chunkSize is the size of each read from the drive and write to the
// destination.
const chunkSize = 128 << 10

// fetch downloads object id, named name, into a temporary file and
// parses it with p. The temporary file is removed before fetch
// returns.
func (r *Resolver) fetch(ctx context.Context, id drive.ID, name string, p table.Parser) (_ *table.Table, err error) {
	rc, err := r.sess.Download(ctx, id)
	if err != nil {
		return nil, err
	}
	defer errors.CleanUp(rc.Close, &err)
	// Keep the extension; parsers may dispatch on it.
	tmp, err := ioutil.TempFile("", "trackexplorer-*"+filepath.Ext(name))
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := os.Remove(tmp.Name()); e != nil && err == nil {
			err = e
		}
	}()
	_, err = copyChunks(tmp, rc)
	if e := tmp.Close(); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return nil, errors.E("track: downloading", name, err)
	}
	return p.Parse(ctx, tmp.Name())
}

// save streams object id to path and returns the base name of path.
// Nothing is left at path if the download fails.
func (r *Resolver) save(ctx context.Context, id drive.ID, path string) (_ string, err error) {
	rc, err := r.sess.Download(ctx, id)
	if err != nil {
		return "", err
	}
	defer errors.CleanUp(rc.Close, &err)
	f, err := file.Create(ctx, path)
	if err != nil {
		return "", err
	}
	if _, err := copyChunks(f.Writer(ctx), rc); err != nil {
		f.Discard(ctx)
		return "", errors.E("track: saving", path, err)
	}
	if err := f.Close(ctx); err != nil {
		return "", err
	}
	log.Printf("track: saved %s", path)
	return file.Base(path), nil
}

// copyChunks copies src to dst chunkSize bytes at a time. The
// wrappers hide ReadFrom and WriteTo so that io.CopyBuffer uses the
// buffer.
func copyChunks(dst io.Writer, src io.Reader) (int64, error) {
	return io.CopyBuffer(struct{ io.Writer }{dst}, struct{ io.Reader }{src}, make([]byte, chunkSize))
}
