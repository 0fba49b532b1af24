// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package track

import (
	"context"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// DefaultCacheDir is the directory searched for local copies of
// artifacts before contacting the drive.
const DefaultCacheDir = "temp"

// cached returns the path of the local copy of the artifact called
// name, if there is one. Names containing a path separator are never
// cached.
func (r *Resolver) cached(ctx context.Context, name string) (string, bool, error) {
	if name == "" {
		return "", false, errors.E(errors.Invalid, "track: empty file name")
	}
	if strings.ContainsRune(name, '/') {
		return "", false, nil
	}
	path := file.Join(r.cacheDir, name)
	if _, err := file.Stat(ctx, path); err != nil {
		if !errors.Is(errors.NotExist, err) {
			log.Error.Printf("track: stat %s: %v", path, err)
		}
		return "", false, nil
	}
	return path, true, nil
}
