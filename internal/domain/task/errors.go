package task

import "errors"

var (
	// ErrNoActiveProject indicates no project is selected to receive the task.
	ErrNoActiveProject = errors.New("no active project selected")
	// ErrInvalidInput indicates invalid task input.
	ErrInvalidInput = errors.New("invalid task input")
	// ErrColumnNotFound indicates the target column doesn't exist in the
	// task's project.
	ErrColumnNotFound = errors.New("column not found")
	// ErrProjectNotFound indicates the destination project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
)
