// Package server implements the MCP server core: a JSON-RPC dispatcher over
// a line-delimited stdio transport, exposing the ALPS profile tools.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/alpsio/alps-mcp/logx"
	"github.com/alpsio/alps-mcp/protocol"
	"github.com/alpsio/alps-mcp/types"
)

// ServerVersion is reported in the initialize result.
const ServerVersion = "0.2.0"

// ToolHandlerFunc handles a single tools/call invocation. It must not panic
// and must fold every failure into the returned result envelope; the
// dispatcher additionally recovers as a backstop.
type ToolHandlerFunc func(ctx context.Context, args map[string]interface{}) protocol.CallToolResult

// requestHandlerFunc handles one recognized request method.
type requestHandlerFunc func(ctx context.Context, id interface{}, rawParams json.RawMessage) *protocol.JSONRPCResponse

// notificationHandlerFunc handles one recognized notification method.
// Notifications never produce output.
type notificationHandlerFunc func(ctx context.Context, rawParams json.RawMessage)

// Server routes parsed JSON-RPC messages to handlers. It performs no I/O
// itself: the transport loop feeds it raw lines and writes back whatever
// response it returns.
type Server struct {
	name         string
	instructions string
	logger       types.Logger

	// Dispatch tables, built once at construction. Keeping them as lookup
	// tables keeps the method registry inspectable without touching the
	// read loop.
	requestHandlers      map[string]requestHandlerFunc
	notificationHandlers map[string]notificationHandlerFunc

	toolRegistry map[string]protocol.Tool
	toolHandlers map[string]ToolHandlerFunc
	toolOrder    []string
	registryMu   sync.RWMutex
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger types.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithInstructions sets the instructions string returned from initialize.
func WithInstructions(instructions string) Option {
	return func(s *Server) {
		s.instructions = instructions
	}
}

// New creates a Server with the exhaustive method table wired up.
func New(name string, opts ...Option) *Server {
	s := &Server{
		name:         name,
		logger:       logx.NewDiscard(),
		toolRegistry: make(map[string]protocol.Tool),
		toolHandlers: make(map[string]ToolHandlerFunc),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.requestHandlers = map[string]requestHandlerFunc{
		protocol.MethodInitialize:    s.handleInitialize,
		protocol.MethodPing:          s.handlePing,
		protocol.MethodListTools:     s.handleListTools,
		protocol.MethodCallTool:      s.handleCallTool,
		protocol.MethodListResources: s.handleListResources,
		protocol.MethodListPrompts:   s.handleListPrompts,
	}
	s.notificationHandlers = map[string]notificationHandlerFunc{
		protocol.MethodInitialized: s.handleInitialized,
	}
	return s
}

// RegisterTool adds a tool descriptor and its handler to the registry.
// Registration happens at process start; the registry is never mutated while
// the serve loop runs.
func (s *Server) RegisterTool(tool protocol.Tool, handler ToolHandlerFunc) error {
	s.registryMu.Lock()
	defer s.registryMu.Unlock()
	if tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler for tool %q cannot be nil", tool.Name)
	}
	if _, exists := s.toolRegistry[tool.Name]; exists {
		return fmt.Errorf("tool %q already registered", tool.Name)
	}
	s.toolRegistry[tool.Name] = tool
	s.toolHandlers[tool.Name] = handler
	s.toolOrder = append(s.toolOrder, tool.Name)
	s.logger.Debug("registered tool: %s", tool.Name)
	return nil
}

// HandleMessage processes one raw inbound line and returns the response owed
// for it, or nil when none is owed (notifications, malformed lines without a
// usable id). It never panics on malformed or unknown input.
func (s *Server) HandleMessage(ctx context.Context, rawMessage []byte) *protocol.JSONRPCResponse {
	// First pass establishes whether the line is a structured object at all.
	// Non-objects are dropped: there is no id to answer to.
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(rawMessage, &envelope); err != nil {
		s.logger.Warn("dropping unparseable message: %v", err)
		return nil
	}

	var base struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      interface{}     `json:"id"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(rawMessage, &base); err != nil {
		// A structured object whose fields have the wrong shapes. Answer
		// only if it carries a usable id.
		if id := extractID(envelope); id != nil {
			return protocol.NewErrorResponse(id, protocol.ErrorCodeInvalidRequest, "Invalid Request")
		}
		s.logger.Warn("dropping malformed message without id: %v", err)
		return nil
	}

	if base.JSONRPC != protocol.Version || base.Method == "" {
		if base.ID != nil {
			return protocol.NewErrorResponse(base.ID, protocol.ErrorCodeInvalidRequest, "Invalid Request")
		}
		s.logger.Warn("dropping malformed message without id (method=%q, jsonrpc=%q)", base.Method, base.JSONRPC)
		return nil
	}

	if base.ID != nil {
		handler, ok := s.requestHandlers[base.Method]
		if !ok {
			s.logger.Warn("method not found: %s", base.Method)
			return protocol.NewErrorResponse(base.ID, protocol.ErrorCodeMethodNotFound, "Method not found")
		}
		return handler(ctx, base.ID, base.Params)
	}

	// Notification: dispatch if recognized, stay silent either way.
	if handler, ok := s.notificationHandlers[base.Method]; ok {
		handler(ctx, base.Params)
	} else {
		s.logger.Debug("ignoring notification for unknown method: %s", base.Method)
	}
	return nil
}

// extractID pulls a non-null id out of a raw object envelope.
func extractID(envelope map[string]json.RawMessage) interface{} {
	rawID, ok := envelope["id"]
	if !ok {
		return nil
	}
	var id interface{}
	if err := json.Unmarshal(rawID, &id); err != nil {
		return nil
	}
	return id
}

// --- Built-in request handlers ---

func (s *Server) handleInitialize(ctx context.Context, id interface{}, rawParams json.RawMessage) *protocol.JSONRPCResponse {
	var params protocol.InitializeRequestParams
	if len(rawParams) > 0 && string(rawParams) != "null" {
		if err := json.Unmarshal(rawParams, &params); err != nil {
			s.logger.Warn("ignoring unparseable initialize params: %v", err)
		}
	}
	if params.ClientInfo.Name != "" {
		s.logger.Info("initialize from client %s %s", params.ClientInfo.Name, params.ClientInfo.Version)
	}

	result := protocol.InitializeResult{
		ProtocolVersion: protocol.ProtocolVersion,
		Capabilities: protocol.ServerCapabilities{
			Tools: &struct {
				ListChanged bool `json:"listChanged,omitempty"`
			}{},
		},
		ServerInfo:   protocol.Implementation{Name: s.name, Version: ServerVersion},
		Instructions: s.instructions,
	}
	return protocol.NewSuccessResponse(id, result)
}

func (s *Server) handlePing(ctx context.Context, id interface{}, rawParams json.RawMessage) *protocol.JSONRPCResponse {
	return protocol.NewSuccessResponse(id, struct{}{})
}

func (s *Server) handleListTools(ctx context.Context, id interface{}, rawParams json.RawMessage) *protocol.JSONRPCResponse {
	s.registryMu.RLock()
	tools := make([]protocol.Tool, 0, len(s.toolOrder))
	for _, name := range s.toolOrder {
		tools = append(tools, s.toolRegistry[name])
	}
	s.registryMu.RUnlock()
	return protocol.NewSuccessResponse(id, protocol.ListToolsResult{Tools: tools})
}

func (s *Server) handleCallTool(ctx context.Context, id interface{}, rawParams json.RawMessage) *protocol.JSONRPCResponse {
	var params protocol.CallToolParams
	if err := protocol.UnmarshalPayload(rawParams, &params); err != nil {
		return protocol.NewErrorResponse(id, protocol.ErrorCodeInvalidParams, fmt.Sprintf("Failed to parse tools/call params: %v", err))
	}
	if params.Name == "" {
		return protocol.NewErrorResponse(id, protocol.ErrorCodeInvalidParams, "Tool name is required")
	}

	s.registryMu.RLock()
	handler, exists := s.toolHandlers[params.Name]
	s.registryMu.RUnlock()
	if !exists {
		s.logger.Warn("unknown tool: %s", params.Name)
		return protocol.NewSuccessResponse(id, protocol.ErrorResult(fmt.Sprintf("Unknown tool: %s", params.Name)))
	}

	args := params.Arguments
	if args == nil {
		args = map[string]interface{}{}
	}
	return protocol.NewSuccessResponse(id, s.callTool(ctx, params.Name, handler, args))
}

// callTool invokes a tool handler, converting a panic into an isError result
// so a failing handler can never take down the serve loop.
func (s *Server) callTool(ctx context.Context, name string, handler ToolHandlerFunc, args map[string]interface{}) (result protocol.CallToolResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tool %s panicked: %v", name, r)
			result = protocol.ErrorResult(fmt.Sprintf("tool %s failed: %v", name, r))
		}
	}()
	return handler(ctx, args)
}

func (s *Server) handleListResources(ctx context.Context, id interface{}, rawParams json.RawMessage) *protocol.JSONRPCResponse {
	return protocol.NewSuccessResponse(id, protocol.ListResourcesResult{Resources: []interface{}{}})
}

func (s *Server) handleListPrompts(ctx context.Context, id interface{}, rawParams json.RawMessage) *protocol.JSONRPCResponse {
	return protocol.NewSuccessResponse(id, protocol.ListPromptsResult{Prompts: []interface{}{}})
}

// --- Built-in notification handlers ---

func (s *Server) handleInitialized(ctx context.Context, rawParams json.RawMessage) {
	s.logger.Info("client completed initialization handshake")
}
