// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package drive

import (
	"context"
	"io"
	"net/http"

	"github.com/grailbio/base/errors"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// listFields limits file listings to the attributes Object carries.
var listFields = []googleapi.Field{"incompleteSearch", "files(id,name,mimeType,parents)"}

type googleStore struct {
	svc *gdrive.Service
}

// NewGoogleStore returns a Store backed by the Google Drive v3 API.
// Client must carry credentials for the Drive scopes, e.g. one
// returned by NewGoogleClient. Opts are passed to the API client.
func NewGoogleStore(ctx context.Context, client *http.Client, opts ...option.ClientOption) (Store, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	svc, err := gdrive.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.E("drive: creating service", err)
	}
	return &googleStore{svc: svc}, nil
}

// Drives implements Store.
func (g *googleStore) Drives(ctx context.Context) ([]DriveInfo, error) {
	var drives []DriveInfo
	err := g.svc.Drives.List().PageSize(100).Pages(ctx, func(list *gdrive.DriveList) error {
		for _, d := range list.Drives {
			drives = append(drives, DriveInfo{ID: ID(d.Id), Name: d.Name})
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return drives, nil
}

// List implements Store. Only the first page of results is returned.
func (g *googleStore) List(ctx context.Context, drive ID, q Query) (Listing, error) {
	list, err := g.svc.Files.List().
		Q(q.String()).
		DriveId(string(drive)).
		Corpora("drive").
		IncludeItemsFromAllDrives(true).
		SupportsAllDrives(true).
		Fields(listFields...).
		Context(ctx).
		Do()
	if err != nil {
		return Listing{}, classify(err)
	}
	l := Listing{Incomplete: list.IncompleteSearch}
	for _, f := range list.Files {
		obj := Object{ID: ID(f.Id), Name: f.Name, MimeType: f.MimeType}
		for _, p := range f.Parents {
			obj.Parents = append(obj.Parents, ID(p))
		}
		l.Objects = append(l.Objects, obj)
	}
	return l, nil
}

// Download implements Store.
func (g *googleStore) Download(ctx context.Context, id ID) (io.ReadCloser, error) {
	resp, err := g.svc.Files.Get(string(id)).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, classify(err)
	}
	return resp.Body, nil
}

// Export implements Store.
func (g *googleStore) Export(ctx context.Context, id ID, mimeType string) (io.ReadCloser, error) {
	resp, err := g.svc.Files.Export(string(id), mimeType).Context(ctx).Download()
	if err != nil {
		return nil, classify(err)
	}
	return resp.Body, nil
}

// classify maps Drive API failures onto error kinds.
func classify(err error) error {
	gerr, ok := err.(*googleapi.Error)
	if !ok {
		if err == context.Canceled || err == context.DeadlineExceeded {
			return errors.E(err)
		}
		return errors.E(errors.Net, err)
	}
	switch {
	case gerr.Code == http.StatusNotFound:
		return errors.E(errors.NotExist, err)
	case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
		return errors.E(errors.NotAllowed, err)
	case gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500:
		return errors.E(errors.Unavailable, errors.Temporary, err)
	default:
		return errors.E(errors.Remote, err)
	}
}
