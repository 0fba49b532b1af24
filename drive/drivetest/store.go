// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package drivetest provides an in-memory drive.Store for tests. It
// records every call so tests can assert which remote operations a
// component performed.
package drivetest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/trackexplorer/drive"
)

// Op names a Store method.
type Op string

const (
	OpDrives   Op = "drives"
	OpList     Op = "list"
	OpDownload Op = "download"
	OpExport   Op = "export"
)

// Call records one invocation of a Store method.
type Call struct {
	Op    Op
	Drive drive.ID
	Query drive.Query
	ID    drive.ID
}

// Store is an in-memory drive.Store holding a single drive's objects.
// Objects are returned by List in insertion order. Store is not safe
// for concurrent use.
type Store struct {
	// Calls records every method invocation, in order.
	Calls []Call
	// Fail, if set, is called before each List. A non-nil return is
	// reported to the caller as the List error.
	Fail func(q drive.Query) error
	// Incomplete marks every List result as incomplete.
	Incomplete bool

	drives  []drive.DriveInfo
	objects []drive.Object
	content map[drive.ID][]byte
	broken  map[drive.ID]brokenRead
	exports map[drive.ID]map[string][]byte
	n       int
}

// New returns a store exposing a single drive called name with ID
// "drive0".
func New(name string) *Store {
	return &Store{
		drives:  []drive.DriveInfo{{ID: "drive0", Name: name}},
		content: make(map[drive.ID][]byte),
		broken:  make(map[drive.ID]brokenRead),
		exports: make(map[drive.ID]map[string][]byte),
	}
}

// AddDrive makes another drive visible in the drive list.
func (s *Store) AddDrive(id drive.ID, name string) {
	s.drives = append(s.drives, drive.DriveInfo{ID: id, Name: name})
}

// Put adds obj, with the given content, to the store.
func (s *Store) Put(obj drive.Object, content []byte) drive.ID {
	s.objects = append(s.objects, obj)
	s.content[obj.ID] = content
	return obj.ID
}

// AddFolder adds a folder named name under parent (no parent if
// absent) and returns its generated ID.
func (s *Store) AddFolder(name string, parent drive.ID) drive.ID {
	return s.Put(drive.Object{ID: s.newID(), Name: name, MimeType: drive.FolderMimeType, Parents: parents(parent)}, nil)
}

// AddFile adds a file named name under parent (no parent if absent)
// and returns its generated ID.
func (s *Store) AddFile(name string, parent drive.ID, content []byte) drive.ID {
	return s.Put(drive.Object{ID: s.newID(), Name: name, MimeType: "application/octet-stream", Parents: parents(parent)}, content)
}

// SetExport registers the content returned when id is exported as
// mimeType.
func (s *Store) SetExport(id drive.ID, mimeType string, content []byte) {
	if s.exports[id] == nil {
		s.exports[id] = make(map[string][]byte)
	}
	s.exports[id][mimeType] = content
}

type brokenRead struct {
	n   int
	err error
}

// FailRead makes downloads of id fail with err after n bytes of its
// content have been read.
func (s *Store) FailRead(id drive.ID, n int, err error) {
	s.broken[id] = brokenRead{n, err}
}

// Queries returns the queries passed to List, in order.
func (s *Store) Queries() []drive.Query {
	var qs []drive.Query
	for _, c := range s.Calls {
		if c.Op == OpList {
			qs = append(qs, c.Query)
		}
	}
	return qs
}

// Count returns the number of recorded calls of op.
func (s *Store) Count(op Op) int {
	var n int
	for _, c := range s.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls.
func (s *Store) Reset() { s.Calls = nil }

// Drives implements drive.Store.
func (s *Store) Drives(ctx context.Context) ([]drive.DriveInfo, error) {
	s.Calls = append(s.Calls, Call{Op: OpDrives})
	return append([]drive.DriveInfo(nil), s.drives...), nil
}

// List implements drive.Store.
func (s *Store) List(ctx context.Context, d drive.ID, q drive.Query) (drive.Listing, error) {
	s.Calls = append(s.Calls, Call{Op: OpList, Drive: d, Query: q})
	if s.Fail != nil {
		if err := s.Fail(q); err != nil {
			return drive.Listing{}, err
		}
	}
	if !s.hasDrive(d) {
		return drive.Listing{}, errors.E(errors.NotExist, "drivetest: unknown drive", string(d))
	}
	l := drive.Listing{Incomplete: s.Incomplete}
	for _, obj := range s.objects {
		if q.Match(obj) {
			l.Objects = append(l.Objects, obj)
		}
	}
	return l, nil
}

// Download implements drive.Store.
func (s *Store) Download(ctx context.Context, id drive.ID) (io.ReadCloser, error) {
	s.Calls = append(s.Calls, Call{Op: OpDownload, ID: id})
	p, ok := s.content[id]
	if !ok {
		return nil, errors.E(errors.NotExist, "drivetest: no object", string(id))
	}
	if b, ok := s.broken[id]; ok {
		if b.n < len(p) {
			p = p[:b.n]
		}
		return ioutil.NopCloser(io.MultiReader(bytes.NewReader(p), errReader{b.err})), nil
	}
	return ioutil.NopCloser(bytes.NewReader(p)), nil
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

// Export implements drive.Store.
func (s *Store) Export(ctx context.Context, id drive.ID, mimeType string) (io.ReadCloser, error) {
	s.Calls = append(s.Calls, Call{Op: OpExport, ID: id})
	p, ok := s.exports[id][mimeType]
	if !ok {
		return nil, errors.E(errors.NotExist, "drivetest: no export", string(id), mimeType)
	}
	return ioutil.NopCloser(bytes.NewReader(p)), nil
}

func (s *Store) hasDrive(id drive.ID) bool {
	for _, d := range s.drives {
		if d.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) newID() drive.ID {
	s.n++
	return drive.ID(fmt.Sprintf("id%d", s.n))
}

func parents(id drive.ID) []drive.ID {
	if !id.Valid() {
		return nil
	}
	return []drive.ID{id}
}
