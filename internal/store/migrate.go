package store

import (
	"encoding/json"
	"sort"
)

// currentSchemaVersion is the document schema this code writes.
// Version 0 is the legacy shape: no per-project columns, tasks carry a flat
// status enum. Version 1 introduced user-customizable ordered column lists
// and per-task columnId.
const currentSchemaVersion = 1

// migrations dispatches a document from version N to N+1.
var migrations = map[int]func(*Document){
	0: migrateFlatStatus,
}

// migrate brings a loaded document to the current schema. It is idempotent
// and tolerant of partially migrated input: the normalize pass repairs any
// legacy remnants even on documents already stamped current.
func migrate(doc *Document) {
	normalize(doc)
	for doc.SchemaVersion < currentSchemaVersion {
		step, ok := migrations[doc.SchemaVersion]
		if !ok {
			break
		}
		step(doc)
		doc.SchemaVersion++
	}
}

// normalize enforces the structural invariants that hold at every version:
// root collections exist, every project has a non-empty ordered column list,
// no task still carries a legacy status, and an active project is selected
// when one exists.
func normalize(doc *Document) {
	if doc.Projects == nil {
		doc.Projects = []Project{}
	}
	if doc.Tasks == nil {
		doc.Tasks = []Task{}
	}
	if doc.Events == nil {
		doc.Events = []json.RawMessage{}
	}
	for i := range doc.Projects {
		p := &doc.Projects[i]
		if len(p.Columns) == 0 {
			p.Columns = DefaultColumns()
			continue
		}
		normalizeColumnOrder(p.Columns)
	}
	migrateFlatStatus(doc)
	if doc.ActiveProjectID == "" && len(doc.Projects) > 0 {
		doc.ActiveProjectID = doc.Projects[0].ID
	}
}

// normalizeColumnOrder assigns columns that decoded without an order their
// array position, sorts ascending by order (stable) and renumbers every
// column to its final index.
func normalizeColumnOrder(cols []Column) {
	for i := range cols {
		if cols[i].orderUnset {
			cols[i].Order = i
			cols[i].orderUnset = false
		}
	}
	sort.SliceStable(cols, func(i, j int) bool {
		return cols[i].Order < cols[j].Order
	})
	for i := range cols {
		cols[i].Order = i
	}
}

// migrateFlatStatus assigns a columnId to every task still carrying the
// legacy status field. The status maps to a role; the task lands in the
// owning project's first column with that role, falling back to the
// project's first column. Tasks whose project is missing or column-less are
// left untouched rather than failing the whole pass.
func migrateFlatStatus(doc *Document) {
	for i := range doc.Tasks {
		task := &doc.Tasks[i]
		if task.ColumnID != "" {
			continue
		}
		proj := doc.Project(task.ProjectID)
		if proj == nil || len(proj.Columns) == 0 {
			continue
		}
		col := proj.ColumnByRole(RoleForStatus(task.Status))
		if col == nil {
			col = &proj.Columns[0]
		}
		task.ColumnID = col.ID
		task.Status = ""
	}
}
