// Package store owns the persisted board state: the single Document holding
// projects, tasks and the active selection. It loads the document from
// durable storage, migrates it to the current schema, and funnels every
// mutation through one entry point that persists synchronously.
package store

import "encoding/json"

// Role categorizes a column for migration purposes. It is advisory
// metadata after migration; nothing enforces it.
type Role string

const (
	RoleTodo  Role = "todo"
	RoleDoing Role = "doing"
	RoleDone  Role = "done"
)

// Task priorities.
const (
	PriorityLow  = "low"
	PriorityMid  = "mid"
	PriorityHigh = "high"
)

// Document is the entire persisted state. Field names are load-bearing:
// they must match documents written by earlier versions of the board.
type Document struct {
	SchemaVersion   int               `json:"schemaVersion,omitempty"`
	ActiveProjectID string            `json:"activeProjectId"`
	Projects        []Project         `json:"projects"`
	Tasks           []Task            `json:"tasks"`
	Events          []json.RawMessage `json:"events"`
}

// Project is a container for tasks with an ordered workflow column list.
type Project struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Desc      string   `json:"desc"`
	Columns   []Column `json:"columns"`
	CreatedAt int64    `json:"createdAt"`
}

// Column is one workflow stage of a project. Order is kept consistent
// with array position; ids are unique within the owning project.
type Column struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	Color string `json:"color"`
	Order int    `json:"order"`

	// orderUnset records that the decoded JSON carried no order field.
	// Normalization assigns such columns their array position and clears
	// the flag.
	orderUnset bool
}

// UnmarshalJSON distinguishes a missing order from an explicit zero, so a
// column that never had one holds its array position instead of jumping to
// the front of the sort.
func (c *Column) UnmarshalJSON(data []byte) error {
	type column Column
	aux := struct {
		*column
		Order *int `json:"order"`
	}{column: (*column)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Order == nil {
		c.orderUnset = true
		return nil
	}
	c.Order = *aux.Order
	return nil
}

// Task is a unit of work inside a project. Status is the legacy flat
// workflow field; migration replaces it with ColumnID and clears it, so it
// never serializes on migrated documents.
type Task struct {
	ID        string   `json:"id"`
	ProjectID string   `json:"projectId"`
	Name      string   `json:"name"`
	Desc      string   `json:"desc"`
	ColumnID  string   `json:"columnId,omitempty"`
	Status    string   `json:"status,omitempty"`
	Priority  string   `json:"priority"`
	Deadline  string   `json:"deadline"`
	Tags      []string `json:"tags"`
	CreatedAt int64    `json:"createdAt"`
}

// Clone returns a fully independent deep copy of the document.
func (d Document) Clone() Document {
	out := d
	out.Projects = make([]Project, len(d.Projects))
	for i, p := range d.Projects {
		out.Projects[i] = p.Clone()
	}
	out.Tasks = make([]Task, len(d.Tasks))
	for i, t := range d.Tasks {
		out.Tasks[i] = t.Clone()
	}
	out.Events = make([]json.RawMessage, len(d.Events))
	for i, e := range d.Events {
		out.Events[i] = append(json.RawMessage(nil), e...)
	}
	return out
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	out := p
	out.Columns = append([]Column(nil), p.Columns...)
	return out
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	out.Tags = append([]string(nil), t.Tags...)
	return out
}

// Project returns a pointer to the project with the given id, or nil.
func (d *Document) Project(id string) *Project {
	for i := range d.Projects {
		if d.Projects[i].ID == id {
			return &d.Projects[i]
		}
	}
	return nil
}

// Task returns a pointer to the task with the given id, or nil.
func (d *Document) Task(id string) *Task {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}

// Column returns a pointer to the column with the given id, or nil.
func (p *Project) Column(id string) *Column {
	for i := range p.Columns {
		if p.Columns[i].ID == id {
			return &p.Columns[i]
		}
	}
	return nil
}

// ColumnByRole returns the first column with the given role, or nil.
func (p *Project) ColumnByRole(role Role) *Column {
	for i := range p.Columns {
		if p.Columns[i].Role == role {
			return &p.Columns[i]
		}
	}
	return nil
}

func defaultDocument() Document {
	return Document{
		Projects: []Project{},
		Tasks:    []Task{},
		Events:   []json.RawMessage{},
	}
}
