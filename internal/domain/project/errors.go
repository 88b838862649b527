package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrColumnNotFound indicates the column doesn't exist in the project.
	ErrColumnNotFound = errors.New("column not found")
	// ErrInvalidInput indicates invalid project or column input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrLastColumn indicates an attempt to delete a project's only column.
	ErrLastColumn = errors.New("cannot delete the last column")
)
