// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package explorer_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/trackexplorer/drive"
	"github.com/grailbio/trackexplorer/drive/drivetest"
	"github.com/grailbio/trackexplorer/explorer"
	"github.com/grailbio/trackexplorer/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, name := range []string{
		"TRACKEXPLORER_CREDENTIALS", "TRACKEXPLORER_DRIVE", "TRACKEXPLORER_APP_FOLDER",
		"TRACKEXPLORER_LISTING", "TRACKEXPLORER_INDEX", "TRACKEXPLORER_CACHE_DIR",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	cfg, err := explorer.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, explorer.Config{
		Credentials: "google-credentials.json",
		Drive:       "MESA models",
		AppFolder:   "trackExplorer",
		Listing:     "Model_grid_info",
		Index:       "grid_list.tsv",
		CacheDir:    "temp",
	}, cfg)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("TRACKEXPLORER_DRIVE", "Other models")
	t.Setenv("TRACKEXPLORER_CACHE_DIR", "s3://bucket/cache")
	cfg, err := explorer.LoadConfig()
	require.NoError(t, err)
	expect.EQ(t, cfg.Drive, "Other models")
	expect.EQ(t, cfg.CacheDir, "s3://bucket/cache")
}

func TestOpenSession(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()
	cfg := explorer.Config{
		AppFolder: "app",
		Listing:   "grids",
		Index:     filepath.Join(dir, "grids.tsv"),
		CacheDir:  filepath.Join(dir, "cache"),
	}

	store := drivetest.New("MESA models")
	app := store.AddFolder("app", "")
	listing := store.AddFile("grids", app, nil)
	store.SetExport(listing, "text/csv", []byte("name,folder_name,model_folder_name,summary_file\nG1,Base,Sub,s.csv\n"))
	base := store.AddFolder("Base", "")
	sub := store.AddFolder("Sub", base)
	store.AddFile("s.csv", base, []byte("name,folder_name\nm1,Base\n"))
	store.AddFile("t.csv", sub, []byte("star_age\n1.0\n"))

	sess, err := drive.Open(ctx, store, "MESA models")
	require.NoError(t, err)
	x, err := explorer.OpenSession(ctx, sess, cfg, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"G1"}, x.Index().Names())
	assert.Equal(t, drive.ID("drive0"), x.Session.Drive())
	_, err = os.Stat(cfg.Index)
	require.NoError(t, err)

	summary, err := x.Summary(ctx, "G1")
	require.NoError(t, err)
	expect.EQ(t, summary.Rows, [][]string{{"m1", "Base"}})
	res, err := x.Track(ctx, "G1", "t.csv", track.TrackOptions{})
	require.NoError(t, err)
	expect.EQ(t, res.Table.Rows, [][]string{{"1.0"}})

	// A second open trusts the persisted index.
	store.Reset()
	x, err = explorer.OpenSession(ctx, sess, cfg, false)
	require.NoError(t, err)
	expect.EQ(t, x.Index().Len(), 1)
	expect.EQ(t, store.Count(drivetest.OpList), 0)
	expect.EQ(t, store.Count(drivetest.OpExport), 0)

	store.Reset()
	_, err = explorer.OpenSession(ctx, sess, cfg, true)
	require.NoError(t, err)
	expect.EQ(t, store.Count(drivetest.OpExport), 1)
}

func TestOpenMissingCredentials(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	cfg := explorer.Config{Credentials: filepath.Join(dir, "missing.json"), Drive: "MESA models"}
	_, err := explorer.Open(context.Background(), cfg, false)
	require.Error(t, err)
	expect.True(t, errors.Is(errors.NotExist, err))
	expect.HasSubstr(t, err.Error(), "missing.json")
}

func TestOpenBadCredentials(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(dir, "key.json")
	require.NoError(t, ioutil.WriteFile(path, []byte("{not json"), 0600))
	_, err := explorer.Open(context.Background(), explorer.Config{Credentials: path, Drive: "MESA models"}, false)
	expect.True(t, errors.Is(errors.Invalid, err))
}
