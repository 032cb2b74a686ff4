package server

import (
	"context"
	"encoding/json"
	"fmt"
)

// CombinedHandler merges several service handlers behind one registration,
// routing each call to whichever handler advertises the tool or resource.
// The sheets and docs pre-booking handlers share an enabled flag and
// register through it as a single service.
type CombinedHandler struct {
	handlers []ServiceHandler
}

// Combine merges handlers into one ServiceHandler.
func Combine(handlers ...ServiceHandler) *CombinedHandler {
	return &CombinedHandler{handlers: handlers}
}

// GetTools returns the tools of every combined handler.
func (h *CombinedHandler) GetTools() []Tool {
	var tools []Tool
	for _, handler := range h.handlers {
		tools = append(tools, handler.GetTools()...)
	}
	return tools
}

// GetResources returns the resources of every combined handler.
func (h *CombinedHandler) GetResources() []Resource {
	var resources []Resource
	for _, handler := range h.handlers {
		resources = append(resources, handler.GetResources()...)
	}
	return resources
}

// HandleToolCall routes to the handler that advertises name.
func (h *CombinedHandler) HandleToolCall(ctx context.Context, name string, arguments json.RawMessage) (interface{}, error) {
	for _, handler := range h.handlers {
		for _, tool := range handler.GetTools() {
			if tool.Name == name {
				return handler.HandleToolCall(ctx, name, arguments)
			}
		}
	}
	return nil, fmt.Errorf("unknown tool: %s", name)
}

// HandleResourceCall routes to the handler that advertises uri.
func (h *CombinedHandler) HandleResourceCall(ctx context.Context, uri string) (interface{}, error) {
	for _, handler := range h.handlers {
		for _, resource := range handler.GetResources() {
			if resource.URI == uri {
				return handler.HandleResourceCall(ctx, uri)
			}
		}
	}
	return nil, fmt.Errorf("unknown resource: %s", uri)
}
