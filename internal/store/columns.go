package store

import "github.com/rpggio/planboard/internal/ident"

// defaultColumnSpec mirrors the workflow of the original flat status enum.
var defaultColumnSpec = []struct {
	name  string
	role  Role
	color string
}{
	{"backlog", RoleTodo, "#9aa0a6"},
	{"in progress", RoleDoing, "#4a90d9"},
	{"review", RoleDoing, "#d9a44a"},
	{"done", RoleDone, "#4ad98b"},
}

// DefaultColumns returns the seed column set for a new project. Each call
// mints fresh column ids; ids are never shared across projects.
func DefaultColumns() []Column {
	cols := make([]Column, len(defaultColumnSpec))
	for i, spec := range defaultColumnSpec {
		cols[i] = Column{
			ID:    ident.New(),
			Name:  spec.name,
			Role:  spec.role,
			Color: spec.color,
			Order: i,
		}
	}
	return cols
}

// statusRoles maps legacy flat status values onto column roles. Unknown or
// missing statuses map to todo.
var statusRoles = map[string]Role{
	"backlog":     RoleTodo,
	"in_progress": RoleDoing,
	"review":      RoleDoing,
	"done":        RoleDone,
}

// RoleForStatus returns the column role a legacy status migrates to.
func RoleForStatus(status string) Role {
	if role, ok := statusRoles[status]; ok {
		return role
	}
	return RoleTodo
}
