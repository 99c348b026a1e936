package protocol

// Implementation describes the name and version of an MCP implementation.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServerCapabilities describes features the server supports. alps-mcp only
// advertises the tools capability; resources and prompts are served as empty
// lists for protocol completeness but not declared.
type ServerCapabilities struct {
	Tools *struct {
		ListChanged bool `json:"listChanged,omitempty"`
	} `json:"tools,omitempty"`
}

// InitializeRequestParams defines the parameters for the 'initialize' request.
// Client capabilities are accepted but not acted upon.
type InitializeRequestParams struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities,omitempty"`
	ClientInfo      Implementation         `json:"clientInfo,omitempty"`
}

// InitializeResult defines the result payload for a successful 'initialize'
// response.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Implementation     `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitempty"`
}

// TextContent represents a textual content part in a tool result.
type TextContent struct {
	Type string `json:"type"` // always "text"
	Text string `json:"text"`
}

// NewTextContent creates a TextContent with the type field populated.
func NewTextContent(text string) TextContent {
	return TextContent{Type: "text", Text: text}
}

// ListResourcesResult is the result payload for 'resources/list'. The server
// offers no resources, so Resources is always an empty slice.
type ListResourcesResult struct {
	Resources []interface{} `json:"resources"`
}

// ListPromptsResult is the result payload for 'prompts/list'. The server
// offers no prompts, so Prompts is always an empty slice.
type ListPromptsResult struct {
	Prompts []interface{} `json:"prompts"`
}
