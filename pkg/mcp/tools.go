package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool name constants.
const (
	ToolNameCount    = "turncost_count"
	ToolNameCompare  = "turncost_compare"
	ToolNameValidate = "turncost_validate"
)

// Input size limits.
const (
	// MaxScheduleInputBytes is the maximum allowed size for an inline schedule (4 MB).
	MaxScheduleInputBytes = 4 << 20
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptySchedule indicates the schedule parameter is empty.
	ErrEmptySchedule = errors.New("schedule parameter is required and must not be empty")
	// ErrScheduleTooLarge indicates the schedule input exceeds the size limit.
	ErrScheduleTooLarge = errors.New("schedule input exceeds maximum size")
	// ErrEmptyDir indicates a directory parameter is empty.
	ErrEmptyDir = errors.New("directory parameter is required and must not be empty")
	// ErrPathNotAbsolute indicates a path parameter is not absolute.
	ErrPathNotAbsolute = errors.New("path must be absolute")
	// ErrDirNotFound indicates a directory parameter does not exist.
	ErrDirNotFound = errors.New("directory does not exist")
)

// Input types (auto-generate JSON schemas via struct tags).

// CountInput is the input schema for the turncost_count tool.
type CountInput struct {
	Schedule string `json:"schedule" jsonschema:"schedule document as YAML with a top-level schedule mapping"`
}

// CompareInput is the input schema for the turncost_compare tool.
type CompareInput struct {
	ChangedResults  string `json:"changed_results"       jsonschema:"absolute path to the changed batch result directory"`
	OriginalResults string `json:"original_results"      jsonschema:"absolute path to the original batch result directory"`
	ReportPath      string `json:"report_path,omitempty" jsonschema:"optional absolute path where the plain-text report is written"`
}

// ValidateInput is the input schema for the turncost_validate tool.
type ValidateInput struct {
	Schedule string `json:"schedule" jsonschema:"schedule document as YAML"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateScheduleInput checks inline schedule constraints.
func validateScheduleInput(doc string) error {
	if doc == "" {
		return ErrEmptySchedule
	}

	if len(doc) > MaxScheduleInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrScheduleTooLarge, len(doc), MaxScheduleInputBytes)
	}

	return nil
}

// validateDir checks that path is an absolute, existing directory.
func validateDir(name, path string) error {
	if path == "" {
		return fmt.Errorf("%w: %s", ErrEmptyDir, name)
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %s", ErrPathNotAbsolute, name)
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDirNotFound, path)
	}

	return nil
}
