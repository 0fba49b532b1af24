// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gridindex

import (
	"context"

	"github.com/grailbio/trackexplorer/drive"
)

// Resolver resolves a query to the ID of its first match. It is
// implemented by *drive.Session.
type Resolver interface {
	ResolveOne(ctx context.Context, q drive.Query) (drive.ID, error)
}

// Home holds the IDs locating a grid: its base folder, the model
// folder inside it, and a file inside the base folder. Any of them
// may be absent.
type Home struct {
	BaseFolder  drive.ID
	ModelFolder drive.ID
	File        drive.ID
}

// ResolveHome resolves, with one query each, the base folder named
// folder, the folder named modelFolder inside it, and the file named
// fileName inside the base folder. A failed step leaves its ID absent
// and later steps are still issued with the absent parent, so they
// fail too.
func ResolveHome(ctx context.Context, r Resolver, folder, modelFolder, fileName string) Home {
	var h Home
	h.BaseFolder, h.ModelFolder = ResolveModelFolder(ctx, r, folder, modelFolder)
	h.File, _ = r.ResolveOne(ctx, drive.NewQuery().InParent(h.BaseFolder).Named(fileName))
	return h
}

// ResolveModelFolder resolves the base folder named folder and the
// folder named modelFolder inside it. Errors are reported by r and
// surface here only as absent IDs.
func ResolveModelFolder(ctx context.Context, r Resolver, folder, modelFolder string) (base, model drive.ID) {
	base, _ = r.ResolveOne(ctx, drive.NewQuery().Kind(drive.Folder).Named(folder))
	model, _ = r.ResolveOne(ctx, drive.NewQuery().Kind(drive.Folder).Named(modelFolder).InParent(base))
	return base, model
}
