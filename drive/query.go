// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package drive

import "strings"

// FolderMimeType is the MIME type Drive assigns to folders.
const FolderMimeType = "application/vnd.google-apps.folder"

// Kind restricts a query to folders or to non-folder objects.
type Kind int

const (
	// AnyKind places no restriction on the object kind.
	AnyKind Kind = iota
	// Folder matches folders only.
	Folder
	// File matches everything that is not a folder.
	File
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Folder:
		return "folder"
	case File:
		return "file"
	default:
		return "any"
	}
}

// Query is a conjunction of predicates over remote objects. The zero
// Query matches every object. Queries are values; each builder method
// returns a modified copy.
//
//	q := drive.NewQuery().Kind(drive.Folder).Named("Base")
//	q.String() // mimeType = 'application/vnd.google-apps.folder' and name = 'Base'
type Query struct {
	kind      Kind
	name      string
	hasName   bool
	parent    ID
	hasParent bool
}

// NewQuery returns an empty query.
func NewQuery() Query { return Query{} }

// Kind restricts q to objects of kind k.
func (q Query) Kind(k Kind) Query {
	q.kind = k
	return q
}

// Named restricts q to objects whose name equals name exactly.
func (q Query) Named(name string) Query {
	q.name, q.hasName = name, true
	return q
}

// InParent restricts q to direct children of the folder id. The
// predicate is kept even when id is absent; such a query matches
// nothing.
func (q Query) InParent(id ID) Query {
	q.parent, q.hasParent = id, true
	return q
}

// Name returns the name predicate, if any.
func (q Query) Name() (string, bool) { return q.name, q.hasName }

// Parent returns the parent predicate, if any.
func (q Query) Parent() (ID, bool) { return q.parent, q.hasParent }

// String renders q in the Drive v3 search syntax. Clauses appear in
// the order kind, name, parent.
func (q Query) String() string {
	var clauses []string
	switch q.kind {
	case Folder:
		clauses = append(clauses, "mimeType = "+quote(FolderMimeType))
	case File:
		clauses = append(clauses, "mimeType != "+quote(FolderMimeType))
	}
	if q.hasName {
		clauses = append(clauses, "name = "+quote(q.name))
	}
	if q.hasParent {
		clauses = append(clauses, quote(string(q.parent))+" in parents")
	}
	return strings.Join(clauses, " and ")
}

// Match evaluates q against obj.
func (q Query) Match(obj Object) bool {
	switch q.kind {
	case Folder:
		if !obj.IsFolder() {
			return false
		}
	case File:
		if obj.IsFolder() {
			return false
		}
	}
	if q.hasName && obj.Name != q.name {
		return false
	}
	if q.hasParent {
		if !q.parent.Valid() {
			return false
		}
		for _, p := range obj.Parents {
			if p == q.parent {
				return true
			}
		}
		return false
	}
	return true
}

var quoter = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quote(s string) string {
	return "'" + quoter.Replace(s) + "'"
}
