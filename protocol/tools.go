package protocol

// ToolInputSchema defines the expected input structure for a tool
// (JSON Schema subset).
type ToolInputSchema struct {
	Type       string                    `json:"type"` // typically "object"
	Properties map[string]PropertyDetail `json:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty"`
}

// PropertyDetail describes a single parameter within a ToolInputSchema.
type PropertyDetail struct {
	Type        string        `json:"type"`
	Description string        `json:"description,omitempty"`
	Enum        []interface{} `json:"enum,omitempty"`
	Default     interface{}   `json:"default,omitempty"`
}

// Tool describes a tool offered by the server. Tool descriptors are
// enumerated at process start and never mutated.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema ToolInputSchema `json:"inputSchema"`
}

// ListToolsResult defines the result payload for a 'tools/list' response.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolParams defines the parameters for a 'tools/call' request.
type CallToolParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// CallToolResult is the uniform envelope every tool handler returns,
// regardless of which underlying operation ran. IsError true is always
// paired with a human-readable diagnostic in Content.
type CallToolResult struct {
	Content []TextContent `json:"content"`
	IsError bool          `json:"isError"`
}

// TextResult builds a success CallToolResult with a single text part.
func TextResult(text string) CallToolResult {
	return CallToolResult{Content: []TextContent{NewTextContent(text)}}
}

// ErrorResult builds a failure CallToolResult with a single text part.
func ErrorResult(text string) CallToolResult {
	return CallToolResult{Content: []TextContent{NewTextContent(text)}, IsError: true}
}
