// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package drive implements a small client for a remote hierarchical
// object store such as a Google shared drive. Folders contain files
// and folders; objects are located with structured queries (see
// Query) and fetched by their store-assigned ID.
//
// The transport is abstracted by Store. A Session binds a Store to one
// named drive and scopes every query to it:
//
//	sess, err := drive.Open(ctx, store, "MESA models")
//	...
//	id, err := sess.ResolveOne(ctx, drive.NewQuery().Kind(drive.Folder).Named("Base"))
//	if errors.Is(errors.NotExist, err) {
//		// Missing, or the store could not answer; see IsTransport.
//	}
package drive

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// ID is an opaque, store-assigned object identifier. The empty ID
// denotes an object that could not be resolved.
type ID string

// Valid tells whether id refers to an object.
func (id ID) Valid() bool { return id != "" }

// String implements fmt.Stringer.
func (id ID) String() string {
	if id == "" {
		return "<absent>"
	}
	return string(id)
}

// Object describes a file or folder in the store.
type Object struct {
	ID       ID
	Name     string
	MimeType string
	Parents  []ID
}

// IsFolder tells whether the object is a folder.
func (o Object) IsFolder() bool { return o.MimeType == FolderMimeType }

// DriveInfo names one store instance visible to the caller.
type DriveInfo struct {
	ID   ID
	Name string
}

// Listing is the first page of results for a query.
type Listing struct {
	Objects []Object
	// Incomplete is set when the store reports that the results may
	// not include every matching object.
	Incomplete bool
}

// Store is the transport to a remote hierarchical store.
// Implementations issue exactly one remote call per method.
type Store interface {
	// Drives lists the store instances visible to the caller.
	Drives(ctx context.Context) ([]DriveInfo, error)
	// List returns the first page of objects in drive matching q,
	// including objects from every accessible sub-collection.
	List(ctx context.Context, drive ID, q Query) (Listing, error)
	// Download returns the content of the object id.
	Download(ctx context.Context, id ID) (io.ReadCloser, error)
	// Export returns the content of the document id converted to mimeType.
	Export(ctx context.Context, id ID, mimeType string) (io.ReadCloser, error)
}

// Session scopes a Store to a single named drive. A Session is not
// safe for concurrent use.
type Session struct {
	store Store
	name  string
	drive ID
}

// Open creates a session on the drive called name, deriving its ID
// from the store's drive list.
func Open(ctx context.Context, store Store, name string) (*Session, error) {
	s := &Session{store: store, name: name}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh re-derives the drive ID by matching the session's drive
// name against the store's drive list. It fails with errors.NotExist
// when no drive carries that name; queries are never left unscoped.
func (s *Session) Refresh(ctx context.Context) error {
	drives, err := s.store.Drives(ctx)
	if err != nil {
		return errors.E("drive: listing drives", err)
	}
	s.drive = ""
	for _, d := range drives {
		if d.Name == s.name {
			s.drive = d.ID
		}
	}
	if !s.drive.Valid() {
		return errors.E(errors.NotExist, fmt.Sprintf("drive: no drive named %q", s.name))
	}
	return nil
}

// Drive returns the ID of the drive the session is scoped to.
func (s *Session) Drive() ID { return s.drive }

// Name returns the drive name the session was opened with.
func (s *Session) Name() string { return s.name }

// ResolveOne returns the ID of the first object matching q. It makes
// exactly one remote call. When nothing matches, or when the call
// fails, ResolveOne returns an absent ID and an error of kind
// errors.NotExist; IsTransport tells the two apart.
func (s *Session) ResolveOne(ctx context.Context, q Query) (ID, error) {
	list, err := s.store.List(ctx, s.drive, q)
	if err != nil {
		log.Error.Printf("drive: query %s: %v", q, err)
		return "", errors.E(errors.NotExist, "query", q.String(), errors.E(errors.Remote, err))
	}
	if len(list.Objects) == 0 {
		log.Error.Printf("drive: query %s: no match", q)
		return "", errors.E(errors.NotExist, "query", q.String())
	}
	log.Debug.Printf("drive: query %s: %s", q, list.Objects[0].ID)
	return list.Objects[0].ID, nil
}

// List returns the first page of objects matching q.
func (s *Session) List(ctx context.Context, q Query) (Listing, error) {
	list, err := s.store.List(ctx, s.drive, q)
	if err != nil {
		return Listing{}, errors.E("query", q.String(), err)
	}
	return list, nil
}

// Download returns the content of the object id. The caller must
// close the returned reader.
func (s *Session) Download(ctx context.Context, id ID) (io.ReadCloser, error) {
	if !id.Valid() {
		return nil, errors.E(errors.Invalid, "drive: download of absent object")
	}
	rc, err := s.store.Download(ctx, id)
	if err != nil {
		return nil, errors.E("download", string(id), err)
	}
	return rc, nil
}

// Export returns the content of document id converted to mimeType.
// The caller must close the returned reader.
func (s *Session) Export(ctx context.Context, id ID, mimeType string) (io.ReadCloser, error) {
	if !id.Valid() {
		return nil, errors.E(errors.Invalid, "drive: export of absent object")
	}
	rc, err := s.store.Export(ctx, id, mimeType)
	if err != nil {
		return nil, errors.E("export", string(id), mimeType, err)
	}
	return rc, nil
}

// IsTransport tells whether err, as returned by ResolveOne, was caused
// by a failed remote call rather than by an empty result.
func IsTransport(err error) bool {
	var transport bool
	errors.Visit(err, func(err error) {
		if e, ok := err.(*errors.Error); ok && e.Kind == errors.Remote {
			transport = true
		}
	})
	return transport
}
