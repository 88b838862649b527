package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/planboard/internal/domain/project"
	"github.com/rpggio/planboard/internal/domain/task"
)

// APIError is the error shape returned to MCP clients.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// mapError maps domain errors to stable MCP error codes. Unknown errors
// pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, task.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid ids"}
	case errors.Is(err, project.ErrColumnNotFound), errors.Is(err, task.ErrColumnNotFound):
		return &APIError{Code: "COLUMN_NOT_FOUND", Message: "column not found in the project", RecoveryHint: "Call get_board for valid column ids"}
	case errors.Is(err, project.ErrLastColumn):
		return &APIError{Code: "LAST_COLUMN", Message: "a project must keep at least one column"}
	case errors.Is(err, task.ErrNoActiveProject):
		return &APIError{Code: "NO_ACTIVE_PROJECT", Message: "no project is selected", RecoveryHint: "Call select_project or create_project first"}
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, task.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return err
	}
}
