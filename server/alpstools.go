package server

import (
	"context"
	"fmt"
	"os"

	"github.com/alpsio/alps-mcp/alps"
	"github.com/alpsio/alps-mcp/protocol"
	"github.com/alpsio/alps-mcp/util/schema"
)

// Tool names exposed via tools/call. This set is exhaustive.
const (
	ToolValidate = "alps_validate"
	ToolToDot    = "alps_to_dot"
	ToolGuide    = "alps_guide"
)

// profileArgs are the arguments shared by the profile-consuming tools.
// Exactly one of FilePath/Content must be provided; the handler enforces the
// alternative, so neither field is marked required in the schema.
type profileArgs struct {
	FilePath string `json:"file_path" description:"Path to an ALPS profile file (JSON or XML)"`
	Content  string `json:"content" description:"Inline ALPS profile content (JSON or XML)"`
}

// renderArgs are the arguments for the DOT rendering tool.
type renderArgs struct {
	FilePath string `json:"file_path" description:"Path to an ALPS profile file (JSON or XML)"`
	Content  string `json:"content" description:"Inline ALPS profile content (JSON or XML)"`
	UseTitle bool   `json:"use_title" description:"Label states and transitions with descriptor titles instead of ids"`
}

// RegisterALPSTools registers the three ALPS tools on the server.
func RegisterALPSTools(s *Server) error {
	tools := []struct {
		tool    protocol.Tool
		handler ToolHandlerFunc
	}{
		{
			tool: protocol.Tool{
				Name:        ToolValidate,
				Description: "Validate an ALPS profile and report descriptor and link counts",
				InputSchema: schema.FromStruct(profileArgs{}),
			},
			handler: s.handleValidateTool,
		},
		{
			tool: protocol.Tool{
				Name:        ToolToDot,
				Description: "Convert an ALPS profile to a Graphviz DOT application state diagram",
				InputSchema: schema.FromStruct(renderArgs{}),
			},
			handler: s.handleToDotTool,
		},
		{
			tool: protocol.Tool{
				Name:        ToolGuide,
				Description: "Return the ALPS profile authoring best-practices guide",
				InputSchema: schema.FromStruct(struct{}{}),
			},
			handler: s.handleGuideTool,
		},
	}
	for _, t := range tools {
		if err := s.RegisterTool(t.tool, t.handler); err != nil {
			return fmt.Errorf("failed to register %s: %w", t.tool.Name, err)
		}
	}
	return nil
}

// loadProfileContent resolves the file_path/content alternative into profile
// text. The failure result is returned before any domain call is made.
func loadProfileContent(filePath, content string) (string, protocol.CallToolResult, bool) {
	if filePath == "" && content == "" {
		return "", protocol.ErrorResult("Either file_path or content parameter is required"), false
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", protocol.ErrorResult(fmt.Sprintf("Failed to read file: %v", err)), false
		}
		return string(data), protocol.CallToolResult{}, true
	}
	return content, protocol.CallToolResult{}, true
}

func (s *Server) handleValidateTool(ctx context.Context, args map[string]interface{}) protocol.CallToolResult {
	var params profileArgs
	if err := schema.DecodeArguments(args, &params); err != nil {
		return protocol.ErrorResult(err.Error())
	}
	content, failure, ok := loadProfileContent(params.FilePath, params.Content)
	if !ok {
		return failure
	}

	result := alps.Validate(content)
	if !result.Valid {
		return protocol.ErrorResult(result.Message)
	}
	return protocol.TextResult(fmt.Sprintf("%s\nDescriptors: %d\nLinks: %d",
		result.Message, result.Descriptors, result.Links))
}

func (s *Server) handleToDotTool(ctx context.Context, args map[string]interface{}) protocol.CallToolResult {
	var params renderArgs
	if err := schema.DecodeArguments(args, &params); err != nil {
		return protocol.ErrorResult(err.Error())
	}
	content, failure, ok := loadProfileContent(params.FilePath, params.Content)
	if !ok {
		return failure
	}

	doc, err := alps.RenderDot(content, params.UseTitle)
	if err != nil {
		return protocol.ErrorResult(err.Error())
	}
	return protocol.TextResult(doc)
}

func (s *Server) handleGuideTool(ctx context.Context, args map[string]interface{}) protocol.CallToolResult {
	return protocol.TextResult(alps.Guide())
}
