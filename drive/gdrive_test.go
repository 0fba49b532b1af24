// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package drive_test

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/trackexplorer/drive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// fakeDriveAPI serves the few Drive v3 endpoints the store uses.
func fakeDriveAPI(t *testing.T) *httptest.Server {
	apiError := func(w http.ResponseWriter, code int) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":"%s"}}`, code, http.StatusText(code))
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/drives":
			fmt.Fprint(w, `{"drives":[{"id":"d0","name":"Other"},{"id":"d1","name":"MESA models"}]}`)
		case "/files":
			assert.Equal(t, "d1", q.Get("driveId"))
			assert.Equal(t, "drive", q.Get("corpora"))
			assert.Equal(t, "true", q.Get("supportsAllDrives"))
			assert.Equal(t, "true", q.Get("includeItemsFromAllDrives"))
			switch q.Get("q") {
			case "mimeType = 'application/vnd.google-apps.folder' and name = 'Base'":
				fmt.Fprint(w, `{"incompleteSearch":true,"files":[`+
					`{"id":"B1","name":"Base","mimeType":"application/vnd.google-apps.folder","parents":["d1"]}]}`)
			case "name = 'forbidden'":
				apiError(w, http.StatusForbidden)
			case "name = 'busy'":
				apiError(w, http.StatusServiceUnavailable)
			case "name = 'bad'":
				apiError(w, http.StatusBadRequest)
			default:
				fmt.Fprint(w, `{"files":[]}`)
			}
		case "/files/F1":
			assert.Equal(t, "media", q.Get("alt"))
			fmt.Fprint(w, "a,b\n1,2\n")
		case "/files/L1/export":
			assert.Equal(t, "text/csv", q.Get("mimeType"))
			fmt.Fprint(w, "name\nG1\n")
		default:
			apiError(w, http.StatusNotFound)
		}
	}))
}

func newGoogleSession(t *testing.T, url string) *drive.Session {
	t.Helper()
	ctx := context.Background()
	store, err := drive.NewGoogleStore(ctx, http.DefaultClient, option.WithEndpoint(url+"/"))
	require.NoError(t, err)
	sess, err := drive.Open(ctx, store, "MESA models")
	require.NoError(t, err)
	return sess
}

func TestGoogleStoreList(t *testing.T) {
	srv := fakeDriveAPI(t)
	defer srv.Close()
	sess := newGoogleSession(t, srv.URL)
	assert.Equal(t, drive.ID("d1"), sess.Drive())
	ctx := context.Background()

	l, err := sess.List(ctx, drive.NewQuery().Kind(drive.Folder).Named("Base"))
	require.NoError(t, err)
	assert.True(t, l.Incomplete)
	assert.Equal(t, []drive.Object{{
		ID: "B1", Name: "Base", MimeType: drive.FolderMimeType, Parents: []drive.ID{"d1"},
	}}, l.Objects)

	_, err = sess.ResolveOne(ctx, drive.NewQuery().Named("nothing"))
	assert.True(t, errors.Is(errors.NotExist, err), "%v", err)
	assert.False(t, drive.IsTransport(err))
}

func TestGoogleStoreErrors(t *testing.T) {
	srv := fakeDriveAPI(t)
	defer srv.Close()
	sess := newGoogleSession(t, srv.URL)
	ctx := context.Background()

	for _, c := range []struct {
		name string
		kind errors.Kind
	}{
		{"forbidden", errors.NotAllowed},
		{"busy", errors.Unavailable},
		{"bad", errors.Remote},
	} {
		_, err := sess.List(ctx, drive.NewQuery().Named(c.name))
		assert.True(t, errors.Is(c.kind, err), "%s: %v", c.name, err)

		_, err = sess.ResolveOne(ctx, drive.NewQuery().Named(c.name))
		assert.True(t, errors.Is(errors.NotExist, err), "%s: %v", c.name, err)
		assert.True(t, drive.IsTransport(err), "%s: %v", c.name, err)
	}
	_, err := sess.List(ctx, drive.NewQuery().Named("busy"))
	assert.True(t, errors.IsTemporary(err), "%v", err)

	_, err = sess.Download(ctx, "missing")
	assert.True(t, errors.Is(errors.NotExist, err), "%v", err)
}

func TestGoogleStoreContent(t *testing.T) {
	srv := fakeDriveAPI(t)
	defer srv.Close()
	sess := newGoogleSession(t, srv.URL)
	ctx := context.Background()

	rc, err := sess.Download(ctx, "F1")
	require.NoError(t, err)
	data, err := ioutil.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "a,b\n1,2\n", string(data))

	rc, err = sess.Export(ctx, "L1", "text/csv")
	require.NoError(t, err)
	data, err = ioutil.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "name\nG1\n", string(data))
}

func TestGoogleStoreNet(t *testing.T) {
	srv := fakeDriveAPI(t)
	sess := newGoogleSession(t, srv.URL)
	srv.Close()
	_, err := sess.List(context.Background(), drive.NewQuery().Named("x"))
	assert.True(t, errors.Is(errors.Net, err), "%v", err)
}
