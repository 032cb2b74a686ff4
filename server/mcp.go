// Package server speaks MCP (JSON-RPC 2.0 over newline-delimited stdio)
// and routes tool and resource calls to the registered service handlers.
// Stdout carries protocol frames only; logging goes through the injected
// slog handler.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/sourcegraph/jsonrpc2"
)

const protocolVersion = "2024-11-05"

// ServiceHandler is one service's contribution of tools and resources.
type ServiceHandler interface {
	GetTools() []Tool
	GetResources() []Resource
	HandleToolCall(ctx context.Context, name string, arguments json.RawMessage) (interface{}, error)
	HandleResourceCall(ctx context.Context, uri string) (interface{}, error)
}

// Tool represents an MCP tool
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema represents the JSON schema for tool input
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property represents a property in the input schema
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Items       *Property `json:"items,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
}

// Resource represents an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// MCPServer dispatches MCP requests to the registered services.
type MCPServer struct {
	logger *slog.Logger

	mu        sync.RWMutex
	services  map[string]ServiceHandler
	byTool    map[string]ServiceHandler
	byURI     map[string]ServiceHandler
	tools     []Tool
	resources []Resource
}

// NewMCPServer creates a server with no services registered.
func NewMCPServer(logger *slog.Logger) *MCPServer {
	return &MCPServer{
		logger:    logger,
		services:  make(map[string]ServiceHandler),
		byTool:    make(map[string]ServiceHandler),
		byURI:     make(map[string]ServiceHandler),
		tools:     []Tool{},
		resources: []Resource{},
	}
}

// RegisterService adds a service's tools and resources to the registry.
func (s *MCPServer) RegisterService(name string, handler ServiceHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.services[name] = handler

	tools := handler.GetTools()
	for _, tool := range tools {
		s.byTool[tool.Name] = handler
	}
	s.tools = append(s.tools, tools...)

	resources := handler.GetResources()
	for _, resource := range resources {
		s.byURI[resource.URI] = handler
	}
	s.resources = append(s.resources, resources...)

	s.logger.Info("service registered",
		"service", name, "tools", len(tools), "resources", len(resources))
}

// Run serves MCP over stdin and stdout until the client disconnects.
func (s *MCPServer) Run(ctx context.Context) error {
	return s.Serve(ctx, NewNewlineDelimitedStream(os.Stdin, os.Stdout))
}

// Serve answers requests on stream until it closes or ctx is cancelled.
func (s *MCPServer) Serve(ctx context.Context, stream jsonrpc2.ObjectStream) error {
	conn := jsonrpc2.NewConn(ctx, stream, &Handler{server: s})

	select {
	case <-ctx.Done():
		_ = conn.Close()
		return ctx.Err()
	case <-conn.DisconnectNotify():
		return nil
	}
}

// NewlineDelimitedStream implements jsonrpc2.ObjectStream for newline-delimited JSON
type NewlineDelimitedStream struct {
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex
}

// NewNewlineDelimitedStream creates a new newline-delimited JSON stream
func NewNewlineDelimitedStream(r io.Reader, w io.Writer) *NewlineDelimitedStream {
	return &NewlineDelimitedStream{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// ReadObject reads a newline-delimited JSON object
func (s *NewlineDelimitedStream) ReadObject(v interface{}) error {
	line, err := s.reader.ReadBytes('\n')
	if err != nil {
		return err
	}
	return json.Unmarshal(line, v)
}

// WriteObject writes a newline-delimited JSON object
func (s *NewlineDelimitedStream) WriteObject(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	_, err = s.writer.Write([]byte("\n"))
	return err
}

// Close is a no-op; the stream does not own stdin and stdout.
func (s *NewlineDelimitedStream) Close() error {
	return nil
}

// Handler handles JSON-RPC requests
type Handler struct {
	server *MCPServer
}

func (h *Handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	switch req.Method {
	case "initialize":
		h.handleInitialize(ctx, conn, req)
	case "initialized", "notifications/initialized":
		// Handshake notification, nothing to send back.
	case "tools/list":
		h.handleToolsList(ctx, conn, req)
	case "tools/call":
		h.handleToolCall(ctx, conn, req)
	case "resources/list":
		h.handleResourcesList(ctx, conn, req)
	case "resources/read":
		h.handleResourceRead(ctx, conn, req)
	case "completion/complete":
		h.handleCompletion(ctx, conn, req)
	default:
		if req.Notif {
			h.server.logger.DebugContext(ctx, "ignoring notification", "method", req.Method)
			return
		}
		h.replyError(ctx, conn, req, jsonrpc2.CodeMethodNotFound,
			fmt.Sprintf("method not found: %s", req.Method))
	}
}

func (h *Handler) reply(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request, result interface{}) {
	if err := conn.Reply(ctx, req.ID, result); err != nil {
		h.server.logger.ErrorContext(ctx, "failed to send reply",
			"method", req.Method, "error", err)
	}
}

func (h *Handler) replyError(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request, code int64, message string) {
	h.server.logger.WarnContext(ctx, "request failed",
		"method", req.Method, "error", message)
	if err := conn.ReplyWithError(ctx, req.ID, &jsonrpc2.Error{Code: code, Message: message}); err != nil {
		h.server.logger.ErrorContext(ctx, "failed to send error reply", "error", err)
	}
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type serverCapabilities struct {
	Tools     interface{} `json:"tools,omitempty"`
	Resources interface{} `json:"resources,omitempty"`
}

type initializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    serverCapabilities `json:"capabilities"`
	ServerInfo      serverInfo         `json:"serverInfo"`
}

func (h *Handler) handleInitialize(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params struct {
		ProtocolVersion string `json:"protocolVersion"`
		ClientInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"clientInfo"`
	}

	if req.Params != nil {
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			h.replyError(ctx, conn, req, jsonrpc2.CodeInvalidParams, "invalid parameters")
			return
		}
	}

	h.server.logger.InfoContext(ctx, "client connected",
		"client", params.ClientInfo.Name, "client_version", params.ClientInfo.Version)

	h.reply(ctx, conn, req, initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    serverCapabilities{Tools: struct{}{}, Resources: struct{}{}},
		ServerInfo:      serverInfo{Name: "voicedesk-google-mcp-server", Version: VERSION},
	})
}

func (h *Handler) handleToolsList(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	h.server.mu.RLock()
	tools := h.server.tools
	h.server.mu.RUnlock()

	h.reply(ctx, conn, req, struct {
		Tools []Tool `json:"tools"`
	}{Tools: tools})
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type toolCallResult struct {
	Content []contentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

func (h *Handler) handleToolCall(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}

	if req.Params == nil {
		h.replyError(ctx, conn, req, jsonrpc2.CodeInvalidParams, "invalid parameters")
		return
	}
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		h.replyError(ctx, conn, req, jsonrpc2.CodeInvalidParams, "invalid parameters")
		return
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	h.server.mu.RLock()
	handler := h.server.byTool[params.Name]
	h.server.mu.RUnlock()

	if handler == nil {
		h.replyError(ctx, conn, req, jsonrpc2.CodeMethodNotFound,
			fmt.Sprintf("tool not found: %s", params.Name))
		return
	}

	h.server.logger.DebugContext(ctx, "tool call", "tool", params.Name)

	result, err := handler.HandleToolCall(ctx, params.Name, params.Arguments)
	if err != nil {
		h.replyError(ctx, conn, req, jsonrpc2.CodeInternalError, err.Error())
		return
	}

	h.reply(ctx, conn, req, toolCallResult{
		Content: []contentItem{{Type: "text", Text: resultText(result)}},
	})
}

// resultText renders a handler result as the text payload of a reply.
func resultText(result interface{}) string {
	switch v := result.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Sprintf("%v", result)
		}
		return string(data)
	}
}

func (h *Handler) handleResourcesList(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	h.server.mu.RLock()
	resources := h.server.resources
	h.server.mu.RUnlock()

	h.reply(ctx, conn, req, struct {
		Resources []Resource `json:"resources"`
	}{Resources: resources})
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}

type resourceReadResult struct {
	Contents []resourceContent `json:"contents"`
}

func (h *Handler) handleResourceRead(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params struct {
		URI string `json:"uri"`
	}

	if req.Params == nil {
		h.replyError(ctx, conn, req, jsonrpc2.CodeInvalidParams, "invalid parameters")
		return
	}
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		h.replyError(ctx, conn, req, jsonrpc2.CodeInvalidParams, "invalid parameters")
		return
	}

	h.server.mu.RLock()
	handler := h.server.byURI[params.URI]
	h.server.mu.RUnlock()

	if handler == nil {
		h.replyError(ctx, conn, req, jsonrpc2.CodeMethodNotFound,
			fmt.Sprintf("resource not found: %s", params.URI))
		return
	}

	result, err := handler.HandleResourceCall(ctx, params.URI)
	if err != nil {
		h.replyError(ctx, conn, req, jsonrpc2.CodeInternalError, err.Error())
		return
	}

	h.reply(ctx, conn, req, resourceReadResult{
		Contents: []resourceContent{{
			URI:      params.URI,
			MimeType: "application/json",
			Text:     resultText(result),
		}},
	})
}

func (h *Handler) handleCompletion(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params struct {
		Ref struct {
			Type string `json:"type"`
			Name string `json:"name,omitempty"`
			URI  string `json:"uri,omitempty"`
		} `json:"ref"`
		Argument struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"argument"`
	}

	if req.Params != nil {
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			h.replyError(ctx, conn, req, jsonrpc2.CodeInvalidParams, "invalid parameters")
			return
		}
	}

	h.reply(ctx, conn, req, struct {
		Completion struct {
			Values []string `json:"values"`
		} `json:"completion"`
	}{})
}
