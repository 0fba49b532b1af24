// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package drive_test

import (
	"context"
	"io/ioutil"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/trackexplorer/drive"
	"github.com/grailbio/trackexplorer/drive/drivetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	store := drivetest.New("MESA models")
	store.AddDrive("other", "Other")

	sess, err := drive.Open(ctx, store, "MESA models")
	require.NoError(t, err)
	assert.Equal(t, drive.ID("drive0"), sess.Drive())
	assert.Equal(t, "MESA models", sess.Name())
	assert.Equal(t, 1, store.Count(drivetest.OpDrives))

	_, err = drive.Open(ctx, store, "missing")
	assert.True(t, errors.Is(errors.NotExist, err), "%v", err)
}

func TestResolveOne(t *testing.T) {
	ctx := context.Background()
	store := drivetest.New("d")
	base := store.AddFolder("Base", "")
	store.AddFolder("Base", "")
	sess, err := drive.Open(ctx, store, "d")
	require.NoError(t, err)
	store.Reset()

	id, err := sess.ResolveOne(ctx, drive.NewQuery().Kind(drive.Folder).Named("Base"))
	require.NoError(t, err)
	assert.Equal(t, base, id, "first match wins")

	id, err = sess.ResolveOne(ctx, drive.NewQuery().Named("nope"))
	assert.False(t, id.Valid())
	assert.True(t, errors.Is(errors.NotExist, err))
	assert.False(t, drive.IsTransport(err))

	require.Len(t, store.Calls, 2, "one remote call per resolution")
	for _, c := range store.Calls {
		assert.Equal(t, drivetest.OpList, c.Op)
		assert.Equal(t, drive.ID("drive0"), c.Drive)
	}
}

func TestResolveOneTransportError(t *testing.T) {
	ctx := context.Background()
	store := drivetest.New("d")
	store.AddFolder("Base", "")
	sess, err := drive.Open(ctx, store, "d")
	require.NoError(t, err)
	store.Fail = func(drive.Query) error {
		return errors.E(errors.NotAllowed, "token expired")
	}

	id, err := sess.ResolveOne(ctx, drive.NewQuery().Named("Base"))
	assert.False(t, id.Valid())
	assert.True(t, errors.Is(errors.NotExist, err), "%v", err)
	assert.True(t, drive.IsTransport(err))
	assert.Contains(t, err.Error(), "token expired")
	assert.Contains(t, err.Error(), "name = 'Base'")
	assert.Equal(t, 1, store.Count(drivetest.OpList), "no retry")
}

func TestRefreshRederives(t *testing.T) {
	ctx := context.Background()
	store := drivetest.New("d")
	sess, err := drive.Open(ctx, store, "d")
	require.NoError(t, err)
	store.AddDrive("drive1", "d")
	require.NoError(t, sess.Refresh(ctx))
	assert.Equal(t, drive.ID("drive1"), sess.Drive(), "last matching drive wins")
	assert.Equal(t, 2, store.Count(drivetest.OpDrives))
}

func TestListIncomplete(t *testing.T) {
	ctx := context.Background()
	store := drivetest.New("d")
	store.AddFile("a.h5", "", nil)
	store.Incomplete = true
	sess, err := drive.Open(ctx, store, "d")
	require.NoError(t, err)

	l, err := sess.List(ctx, drive.NewQuery().Named("a.h5"))
	require.NoError(t, err)
	assert.True(t, l.Incomplete)
	assert.Len(t, l.Objects, 1)
}

func TestDownloadExport(t *testing.T) {
	ctx := context.Background()
	store := drivetest.New("d")
	id := store.AddFile("a.h5", "", []byte("payload"))
	store.SetExport(id, "text/csv", []byte("a,b\n"))
	sess, err := drive.Open(ctx, store, "d")
	require.NoError(t, err)

	rc, err := sess.Download(ctx, id)
	require.NoError(t, err)
	p, err := ioutil.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "payload", string(p))

	rc, err = sess.Export(ctx, id, "text/csv")
	require.NoError(t, err)
	p, err = ioutil.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "a,b\n", string(p))

	_, err = sess.Download(ctx, "")
	assert.True(t, errors.Is(errors.Invalid, err))
	_, err = sess.Download(ctx, "missing")
	assert.True(t, errors.Is(errors.NotExist, err))
}
