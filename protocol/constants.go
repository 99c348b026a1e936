package protocol

// Version is the JSON-RPC protocol tag carried by every message.
const Version = "2.0"

// ProtocolVersion is the MCP protocol revision this server implements.
// It is reported in the initialize result and never negotiated.
const ProtocolVersion = "2024-11-05"

// Method name constants, aligning with the JSON-RPC 'method' field names
// from the MCP spec. This list is exhaustive for the server.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized" // notification

	MethodPing = "ping"

	MethodListTools = "tools/list"
	MethodCallTool  = "tools/call"

	MethodListResources = "resources/list"
	MethodListPrompts   = "prompts/list"
)

// Standard JSON-RPC 2.0 error codes.
const (
	ErrorCodeParseError     = -32700
	ErrorCodeInvalidRequest = -32600
	ErrorCodeMethodNotFound = -32601
	ErrorCodeInvalidParams  = -32602
	ErrorCodeInternalError  = -32603
)
