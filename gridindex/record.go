// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gridindex

import (
	"fmt"

	"github.com/grailbio/trackexplorer/drive"
)

// DerivedFolderName is the model_folder_name value marking grids whose
// tracks live in per-model folders named inside the summary file.
const DerivedFolderName = "in_file"

// Record describes one grid. The tsv tags name the persisted columns.
type Record struct {
	Name            string `tsv:"name"`
	FolderName      string `tsv:"folder_name"`
	ModelFolderName string `tsv:"model_folder_name"`
	SummaryFile     string `tsv:"summary_file"`

	// Resolved IDs; empty when resolution failed. They are trusted
	// until the index is rebuilt.
	BaseFolderID  drive.ID `tsv:"base_folder_id"`
	ModelFolderID drive.ID `tsv:"model_folder_id"`
	SummaryFileID drive.ID `tsv:"summary_file_id"`
}

// Resolved tells whether every remote ID of the record is known.
func (r Record) Resolved() bool {
	return r.BaseFolderID.Valid() && r.ModelFolderID.Valid() && r.SummaryFileID.Valid()
}

// ModelFolder returns where the grid's tracks are to be looked up.
func (r Record) ModelFolder() FolderSource {
	if r.ModelFolderName == DerivedFolderName && !r.ModelFolderID.Valid() {
		return DerivedFromSummary()
	}
	return Fixed(r.ModelFolderID)
}

// FolderSource is either a fixed folder ID shared by every track of a
// grid, or a marker that the folder differs per track and must be
// derived from folder names recorded in the grid's summary file.
type FolderSource struct {
	id      drive.ID
	derived bool
}

// Fixed returns a source naming folder id. The id may be absent, in
// which case lookups under it find nothing.
func Fixed(id drive.ID) FolderSource { return FolderSource{id: id} }

// DerivedFromSummary returns the per-track source.
func DerivedFromSummary() FolderSource { return FolderSource{derived: true} }

// Derived tells whether the folder must be derived per track.
func (s FolderSource) Derived() bool { return s.derived }

// ID returns the fixed folder ID. It is absent for derived sources.
func (s FolderSource) ID() drive.ID { return s.id }

// String implements fmt.Stringer.
func (s FolderSource) String() string {
	if s.derived {
		return "derived-from-summary"
	}
	return fmt.Sprintf("fixed(%s)", s.id)
}
