package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// ParseLineInput is the input schema for the parse_line tool.
type ParseLineInput struct {
	Line string `json:"line" jsonschema:"one raw access-log record, flat text or JSON"`
}

// ParseLineOutput is the output schema for the parse_line tool.
type ParseLineOutput struct {
	Format   string         `json:"format"`
	State    string         `json:"state"`
	Accepted bool           `json:"accepted"`
	Reason   string         `json:"reason,omitempty"`
	Record   map[string]any `json:"record,omitempty"`
}

// DetectFormatInput is the input schema for the detect_format tool.
type DetectFormatInput struct {
	Line string `json:"line" jsonschema:"one raw access-log record"`
}

// DetectFormatOutput is the output schema for the detect_format tool.
type DetectFormatOutput struct {
	Format string `json:"format"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "parse_line",
		Description: "Parse, normalise and enrich one F5 access-log record",
	}, s.handleParseLine)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "detect_format",
		Description: "Classify an access-log record as structured, flat_text or unknown",
	}, s.handleDetectFormat)
}

// handleParseLine runs the line through the pipeline without storing it.
func (s *Server) handleParseLine(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ParseLineInput,
) (*mcp.CallToolResult, ParseLineOutput, error) {
	line := strings.TrimRight(input.Line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil, ParseLineOutput{}, fmt.Errorf("line is empty: %w", domain.ErrInvalidInput)
	}

	result, err := s.ports.Parse.Parse(ctx, line)
	if err != nil {
		return nil, ParseLineOutput{}, err
	}

	output := ParseLineOutput{
		Format:   string(result.Format),
		State:    string(result.State),
		Accepted: result.Record != nil,
		Reason:   result.Reason,
	}
	if result.Record != nil {
		fields, err := recordFields(result.Record)
		if err != nil {
			return nil, ParseLineOutput{}, err
		}
		output.Record = fields
	}
	return nil, output, nil
}

// handleDetectFormat classifies the line.
func (s *Server) handleDetectFormat(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DetectFormatInput,
) (*mcp.CallToolResult, DetectFormatOutput, error) {
	return nil, DetectFormatOutput{Format: string(s.ports.Parse.Detect(input.Line))}, nil
}

// recordFields flattens a record into its JSON field map.
func recordFields(rec *domain.EnrichedRecord) (map[string]any, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshalling record: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("unmarshalling record: %w", err)
	}
	return fields, nil
}
