package server_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpsio/alps-mcp/alps"
	"github.com/alpsio/alps-mcp/protocol"
	"github.com/alpsio/alps-mcp/server"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	srv := server.New("alps-mcp-test")
	require.NoError(t, server.RegisterALPSTools(srv))
	return srv
}

func handle(t *testing.T, srv *server.Server, line string) *protocol.JSONRPCResponse {
	t.Helper()
	return srv.HandleMessage(context.Background(), []byte(line))
}

func toolResult(t *testing.T, resp *protocol.JSONRPCResponse) protocol.CallToolResult {
	t.Helper()
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
	result, ok := resp.Result.(protocol.CallToolResult)
	require.True(t, ok, "result should be a CallToolResult, got %T", resp.Result)
	return result
}

func TestInitialize(t *testing.T) {
	srv := newTestServer(t)

	resp := handle(t, srv, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	require.NotNil(t, resp)
	assert.Equal(t, float64(1), resp.ID)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, protocol.ProtocolVersion, result.ProtocolVersion)
	assert.Equal(t, "alps-mcp-test", result.ServerInfo.Name)
	assert.NotNil(t, result.Capabilities.Tools)
}

func TestInitializedNotificationProducesNoOutput(t *testing.T) {
	srv := newTestServer(t)
	resp := handle(t, srv, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	assert.Nil(t, resp)
}

func TestClientPing(t *testing.T) {
	srv := newTestServer(t)

	resp := handle(t, srv, `{"jsonrpc":"2.0","id":"p1","method":"ping"}`)
	require.NotNil(t, resp)
	assert.Equal(t, "p1", resp.ID)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Result)
}

func TestListTools(t *testing.T) {
	srv := newTestServer(t)

	resp := handle(t, srv, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(protocol.ListToolsResult)
	require.True(t, ok)
	require.Len(t, result.Tools, 3)
	// Registration order is preserved
	assert.Equal(t, server.ToolValidate, result.Tools[0].Name)
	assert.Equal(t, server.ToolToDot, result.Tools[1].Name)
	assert.Equal(t, server.ToolGuide, result.Tools[2].Name)
	assert.Equal(t, "object", result.Tools[0].InputSchema.Type)
	assert.Contains(t, result.Tools[0].InputSchema.Properties, "file_path")
}

func TestEmptyResourceAndPromptLists(t *testing.T) {
	srv := newTestServer(t)

	resp := handle(t, srv, `{"jsonrpc":"2.0","id":3,"method":"resources/list"}`)
	require.NotNil(t, resp)
	resources, ok := resp.Result.(protocol.ListResourcesResult)
	require.True(t, ok)
	assert.Empty(t, resources.Resources)
	assert.NotNil(t, resources.Resources, "must serialize as [] not null")

	resp = handle(t, srv, `{"jsonrpc":"2.0","id":4,"method":"prompts/list"}`)
	require.NotNil(t, resp)
	prompts, ok := resp.Result.(protocol.ListPromptsResult)
	require.True(t, ok)
	assert.Empty(t, prompts.Prompts)
	assert.NotNil(t, prompts.Prompts)
}

func TestMethodNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := handle(t, srv, `{"jsonrpc":"2.0","id":9,"method":"sampling/create_message"}`)
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ErrorCodeMethodNotFound, resp.Error.Code)
	assert.Equal(t, float64(9), resp.ID)
}

func TestUnknownMethodNotificationIsDropped(t *testing.T) {
	srv := newTestServer(t)
	resp := handle(t, srv, `{"jsonrpc":"2.0","method":"sampling/create_message"}`)
	assert.Nil(t, resp)
}

func TestMalformedMessages(t *testing.T) {
	srv := newTestServer(t)

	t.Run("unparseable text produces no output", func(t *testing.T) {
		assert.Nil(t, handle(t, srv, `not json at all`))
	})

	t.Run("non-object json produces no output", func(t *testing.T) {
		assert.Nil(t, handle(t, srv, `[1,2,3]`))
		assert.Nil(t, handle(t, srv, `"just a string"`))
	})

	t.Run("object with id but no method gets invalid request", func(t *testing.T) {
		resp := handle(t, srv, `{"id":5}`)
		require.NotNil(t, resp)
		require.NotNil(t, resp.Error)
		assert.Equal(t, protocol.ErrorCodeInvalidRequest, resp.Error.Code)
		assert.Equal(t, "Invalid Request", resp.Error.Message)
		assert.Equal(t, float64(5), resp.ID)
	})

	t.Run("object with method but no protocol tag gets invalid request", func(t *testing.T) {
		resp := handle(t, srv, `{"id":6,"method":"ping"}`)
		require.NotNil(t, resp)
		require.NotNil(t, resp.Error)
		assert.Equal(t, protocol.ErrorCodeInvalidRequest, resp.Error.Code)
	})

	t.Run("object without id produces no output", func(t *testing.T) {
		assert.Nil(t, handle(t, srv, `{"method":"ping"}`))
		assert.Nil(t, handle(t, srv, `{"foo":"bar"}`))
		assert.Nil(t, handle(t, srv, `{"jsonrpc":"2.0","id":null,"method":"bogus"}`))
	})

	t.Run("object with mistyped method carrying id gets invalid request", func(t *testing.T) {
		resp := handle(t, srv, `{"jsonrpc":"2.0","id":7,"method":12}`)
		require.NotNil(t, resp)
		require.NotNil(t, resp.Error)
		assert.Equal(t, protocol.ErrorCodeInvalidRequest, resp.Error.Code)
		assert.Equal(t, float64(7), resp.ID)
	})
}

func TestCallUnknownTool(t *testing.T) {
	srv := newTestServer(t)

	resp := handle(t, srv, `{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"unknown_tool","arguments":{}}}`)
	result := toolResult(t, resp)
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "Unknown tool: unknown_tool", result.Content[0].Text)
}

func TestCallToolMissingParams(t *testing.T) {
	srv := newTestServer(t)

	resp := handle(t, srv, `{"jsonrpc":"2.0","id":10,"method":"tools/call"}`)
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ErrorCodeInvalidParams, resp.Error.Code)

	resp = handle(t, srv, `{"jsonrpc":"2.0","id":11,"method":"tools/call","params":{"arguments":{}}}`)
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, protocol.ErrorCodeInvalidParams, resp.Error.Code)
}

func TestGuideTool(t *testing.T) {
	srv := newTestServer(t)

	resp := handle(t, srv, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"alps_guide","arguments":{}}}`)
	result := toolResult(t, resp)
	assert.Equal(t, float64(2), resp.ID)
	assert.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Equal(t, alps.Guide(), result.Content[0].Text)
}

func TestToolPanicIsContained(t *testing.T) {
	srv := server.New("panics")
	require.NoError(t, srv.RegisterTool(protocol.Tool{
		Name:        "explode",
		InputSchema: protocol.ToolInputSchema{Type: "object"},
	}, func(ctx context.Context, args map[string]interface{}) protocol.CallToolResult {
		panic("kaboom")
	}))

	resp := handle(t, srv, `{"jsonrpc":"2.0","id":12,"method":"tools/call","params":{"name":"explode","arguments":{}}}`)
	result := toolResult(t, resp)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "kaboom")
}

func TestRegisterToolValidation(t *testing.T) {
	srv := server.New("reg")
	handler := func(ctx context.Context, args map[string]interface{}) protocol.CallToolResult {
		return protocol.TextResult("ok")
	}

	assert.Error(t, srv.RegisterTool(protocol.Tool{}, handler))
	assert.Error(t, srv.RegisterTool(protocol.Tool{Name: "x"}, nil))
	require.NoError(t, srv.RegisterTool(protocol.Tool{Name: "x"}, handler))
	assert.Error(t, srv.RegisterTool(protocol.Tool{Name: "x"}, handler), "duplicate registration")
}

func TestEveryRequestGetsExactlyOneResponse(t *testing.T) {
	srv := newTestServer(t)

	methods := []string{"initialize", "ping", "tools/list", "resources/list", "prompts/list"}
	for i, method := range methods {
		line := fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"method":"%s"}`, i, method)
		resp := handle(t, srv, line)
		require.NotNil(t, resp, "method %s", method)
		assert.Equal(t, float64(i), resp.ID, "method %s", method)

		// The same method as a notification must stay silent.
		note := fmt.Sprintf(`{"jsonrpc":"2.0","method":"%s"}`, method)
		assert.Nil(t, handle(t, srv, note), "notification %s", method)
	}
}
