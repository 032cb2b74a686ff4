package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/sourcegraph/jsonrpc2"
)

type stubService struct {
	tool  string
	uri   string
	calls int
}

func newStubService(tool, uri string) *stubService {
	return &stubService{tool: tool, uri: uri}
}

func (s *stubService) GetTools() []Tool {
	return []Tool{{
		Name:        s.tool,
		Description: "Echo the supplied message",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"message": {Type: "string", Description: "Message to echo"},
			},
			Required: []string{"message"},
		},
	}}
}

func (s *stubService) GetResources() []Resource {
	return []Resource{{URI: s.uri, Name: "Stub State", MimeType: "application/json"}}
}

func (s *stubService) HandleToolCall(_ context.Context, name string, arguments json.RawMessage) (interface{}, error) {
	if name != s.tool {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	s.calls++

	var args struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(arguments, &args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if args.Message == "boom" {
		return nil, fmt.Errorf("stub exploded")
	}
	return map[string]string{"echo": args.Message}, nil
}

func (s *stubService) HandleResourceCall(_ context.Context, uri string) (interface{}, error) {
	if uri != s.uri {
		return nil, fmt.Errorf("unknown resource: %s", uri)
	}
	return map[string]int{"calls": s.calls}, nil
}

type noopHandler struct{}

func (noopHandler) Handle(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) {}

// newTestConn serves s over one end of an in-memory pipe and returns a
// client connection speaking to it from the other end.
func newTestConn(t *testing.T, s *MCPServer) *jsonrpc2.Conn {
	t.Helper()

	serverSide, clientSide := net.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = serverSide.Close()
		_ = clientSide.Close()
	})

	go func() { _ = s.Serve(ctx, NewNewlineDelimitedStream(serverSide, serverSide)) }()

	return jsonrpc2.NewConn(ctx, NewNewlineDelimitedStream(clientSide, clientSide), noopHandler{})
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestRegisterService(t *testing.T) {
	s := NewMCPServer(slog.New(slog.DiscardHandler))
	s.RegisterService("stub", newStubService("stub_echo", "stub://state"))
	s.RegisterService("other", newStubService("other_do", "other://state"))

	if len(s.tools) != 2 {
		t.Errorf("Expected 2 tools, got %d", len(s.tools))
	}
	if len(s.resources) != 2 {
		t.Errorf("Expected 2 resources, got %d", len(s.resources))
	}
	if s.byTool["stub_echo"] == nil || s.byTool["other_do"] == nil {
		t.Error("Tool index missing registered tools")
	}
	if s.byURI["stub://state"] == nil || s.byURI["other://state"] == nil {
		t.Error("Resource index missing registered resources")
	}
}

func TestServeInitialize(t *testing.T) {
	s := NewMCPServer(slog.New(slog.DiscardHandler))
	client := newTestConn(t, s)
	ctx := testContext(t)

	params := map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"clientInfo":      map[string]string{"name": "mcp-test", "version": "0.0.1"},
	}

	var result struct {
		ProtocolVersion string `json:"protocolVersion"`
		ServerInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	if err := client.Call(ctx, "initialize", params, &result); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("Unexpected protocol version: %s", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != "voicedesk-google-mcp-server" {
		t.Errorf("Unexpected server name: %s", result.ServerInfo.Name)
	}
	if result.ServerInfo.Version != VERSION {
		t.Errorf("Unexpected server version: %s", result.ServerInfo.Version)
	}
}

func TestServeToolDispatch(t *testing.T) {
	s := NewMCPServer(slog.New(slog.DiscardHandler))
	stub := newStubService("stub_echo", "stub://state")
	s.RegisterService("stub", stub)

	client := newTestConn(t, s)
	ctx := testContext(t)

	var list struct {
		Tools []Tool `json:"tools"`
	}
	if err := client.Call(ctx, "tools/list", nil, &list); err != nil {
		t.Fatalf("tools/list failed: %v", err)
	}
	if len(list.Tools) != 1 || list.Tools[0].Name != "stub_echo" {
		t.Fatalf("Unexpected tool list: %+v", list.Tools)
	}

	var call struct {
		Content []contentItem `json:"content"`
	}
	params := map[string]interface{}{
		"name":      "stub_echo",
		"arguments": map[string]string{"message": "hi"},
	}
	if err := client.Call(ctx, "tools/call", params, &call); err != nil {
		t.Fatalf("tools/call failed: %v", err)
	}
	if len(call.Content) != 1 || call.Content[0].Type != "text" {
		t.Fatalf("Unexpected content: %+v", call.Content)
	}
	if call.Content[0].Text != `{"echo":"hi"}` {
		t.Errorf("Unexpected content text: %s", call.Content[0].Text)
	}
	if stub.calls != 1 {
		t.Errorf("Expected 1 handler call, got %d", stub.calls)
	}

	err := client.Call(ctx, "tools/call", map[string]interface{}{"name": "missing_tool"}, nil)
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("Expected method-not-found error, got %v", err)
	}

	err = client.Call(ctx, "tools/call", map[string]interface{}{
		"name":      "stub_echo",
		"arguments": map[string]string{"message": "boom"},
	}, nil)
	if !errors.As(err, &rpcErr) || !strings.Contains(rpcErr.Message, "stub exploded") {
		t.Errorf("Expected handler error to surface, got %v", err)
	}
}

func TestServeResourceDispatch(t *testing.T) {
	s := NewMCPServer(slog.New(slog.DiscardHandler))
	s.RegisterService("stub", newStubService("stub_echo", "stub://state"))

	client := newTestConn(t, s)
	ctx := testContext(t)

	var list struct {
		Resources []Resource `json:"resources"`
	}
	if err := client.Call(ctx, "resources/list", nil, &list); err != nil {
		t.Fatalf("resources/list failed: %v", err)
	}
	if len(list.Resources) != 1 || list.Resources[0].URI != "stub://state" {
		t.Fatalf("Unexpected resource list: %+v", list.Resources)
	}

	var read resourceReadResult
	if err := client.Call(ctx, "resources/read", map[string]string{"uri": "stub://state"}, &read); err != nil {
		t.Fatalf("resources/read failed: %v", err)
	}
	if len(read.Contents) != 1 {
		t.Fatalf("Expected 1 content item, got %d", len(read.Contents))
	}
	if read.Contents[0].MimeType != "application/json" {
		t.Errorf("Unexpected mime type: %s", read.Contents[0].MimeType)
	}
	if read.Contents[0].Text != `{"calls":0}` {
		t.Errorf("Unexpected resource text: %s", read.Contents[0].Text)
	}

	err := client.Call(ctx, "resources/read", map[string]string{"uri": "stub://missing"}, nil)
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("Expected method-not-found error, got %v", err)
	}
}

func TestServeUnknownMethod(t *testing.T) {
	s := NewMCPServer(slog.New(slog.DiscardHandler))
	client := newTestConn(t, s)
	ctx := testContext(t)

	err := client.Call(ctx, "prompts/list", nil, nil)
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("Expected method-not-found error, got %v", err)
	}
}

func TestNewlineDelimitedStream(t *testing.T) {
	var buf bytes.Buffer
	stream := NewNewlineDelimitedStream(&buf, &buf)

	if err := stream.WriteObject(map[string]string{"hello": "world"}); err != nil {
		t.Fatalf("WriteObject failed: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("Expected newline-terminated frame")
	}

	var decoded map[string]string
	if err := stream.ReadObject(&decoded); err != nil {
		t.Fatalf("ReadObject failed: %v", err)
	}
	if decoded["hello"] != "world" {
		t.Errorf("Unexpected object: %v", decoded)
	}
}

func TestResultText(t *testing.T) {
	tests := []struct {
		name   string
		result interface{}
		want   string
	}{
		{"string passthrough", "already text", "already text"},
		{"byte passthrough", []byte("raw"), "raw"},
		{"marshals values", map[string]int{"n": 1}, `{"n":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resultText(tt.result); got != tt.want {
				t.Errorf("resultText() = %q, want %q", got, tt.want)
			}
		})
	}
}
