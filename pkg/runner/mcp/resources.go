package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerTasksResource(srv, svc)
	registerTrashResource(srv, svc)
	registerStatisticsResource(srv, svc)
	registerMonthTemplate(srv, svc)
	registerTaskTemplate(srv, svc)
}

func registerTasksResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"progressly://tasks",
		"Current Month",
		mcp.WithResourceDescription("Tasks of the current month sorted by priority, with the month's stats."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dto, err := svc.ListTasks(ctx, ListOptions{})
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func registerTrashResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"progressly://trash",
		"Trash",
		mcp.WithResourceDescription("Trashed tasks, most recently deleted first."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		trash, err := svc.ListTrash(ctx)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"tasks": trash,
			"count": len(trash),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerStatisticsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"progressly://statistics",
		"Statistics",
		mcp.WithResourceDescription("Completion statistics over every active task."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		s, err := svc.Statistics(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, s)
	})
}

func registerMonthTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"progressly://months/{year}/{month}",
		"Month Tasks",
		mcp.WithTemplateDescription("Tasks of one month. The month is zero-based."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		year, err := intArgument(request.Params.Arguments, "year")
		if err != nil {
			return nil, err
		}
		month, err := intArgument(request.Params.Arguments, "month")
		if err != nil {
			return nil, err
		}
		dto, err := svc.ListTasks(ctx, ListOptions{Month: &month, Year: &year})
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func registerTaskTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"progressly://tasks/{id}",
		"Task Details",
		mcp.WithTemplateDescription("Detailed information about a single task."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := stringArgument(request.Params.Arguments, "id")
		if id == "" {
			return nil, fmt.Errorf("task id is required")
		}
		dto, err := svc.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"task": dto,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

// stringArgument reads a template variable, which may arrive as a string or
// as a single element list.
func stringArgument(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	case []any:
		if len(v) > 0 {
			s, _ := v[0].(string)
			return s
		}
	}
	return ""
}

func intArgument(args map[string]any, name string) (int, error) {
	raw := stringArgument(args, name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
