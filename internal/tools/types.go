// Package tools provides the callable tool surface of robomend. Each core
// operation (mate extraction, renaming, URDF inspection, duplicate link
// removal) is wrapped as a named tool with a JSON schema, so an external
// agent/orchestration layer can discover and invoke them without linking
// against the engines directly.
package tools

import (
	"context"
)

// ToolCategory classifies tools for selection by a caller.
type ToolCategory string

const (
	// CategoryMates covers mate name extraction and renaming.
	CategoryMates ToolCategory = "/mates"

	// CategoryLinks covers duplicate link detection and removal.
	CategoryLinks ToolCategory = "/links"

	// CategoryURDF covers read-only kinematic description inspection.
	CategoryURDF ToolCategory = "/urdf"

	// CategoryGeneral is for tools usable from any workflow.
	CategoryGeneral ToolCategory = "/general"
)

// Property describes a single parameter property for JSON schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
}

// ToolSchema defines the JSON schema for tool arguments.
type ToolSchema struct {
	// Required lists parameters that must be provided.
	Required []string `json:"required"`

	// Properties describes each parameter.
	Properties map[string]Property `json:"properties"`
}

// ExecuteFunc is the signature for tool execution.
// Returns the result string and any error.
type ExecuteFunc func(ctx context.Context, args map[string]any) (string, error)

// Tool defines one callable operation.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string

	// Description explains what the tool does.
	Description string

	// Category classifies the tool.
	Category ToolCategory

	// Execute runs the tool with the given arguments.
	Execute ExecuteFunc

	// Schema defines the expected arguments.
	Schema ToolSchema

	// Mutating marks tools that persist document changes; callers can gate
	// these behind an approval step.
	Mutating bool

	// Priority is used when multiple tools match.
	// Higher priority tools are preferred (default 50).
	Priority int
}

// Validate checks if the tool definition is valid.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return ErrToolExecuteNil
	}
	return nil
}

// ToolResult wraps the result of tool execution with metadata.
type ToolResult struct {
	// ToolName identifies which tool was executed.
	ToolName string

	// Result is the string output from the tool.
	Result string

	// Error is set if the tool failed.
	Error error

	// DurationMs is how long execution took.
	DurationMs int64
}

// IsSuccess returns true if the tool executed without error.
func (r *ToolResult) IsSuccess() bool {
	return r.Error == nil
}
