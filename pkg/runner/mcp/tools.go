package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/task"
)

type toolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

func registerTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(listTasksTool(), listTasks(svc))
	srv.AddTool(getTaskTool(), getTask(svc))
	srv.AddTool(addTaskTool(svc), addTask(svc))
	srv.AddTool(editTaskTool(svc), editTask(svc))
	srv.AddTool(setProgressTool(), setProgress(svc))
	srv.AddTool(addSubtaskTool(), addSubtask(svc))
	srv.AddTool(setSubtaskProgressTool(), setSubtaskProgress(svc))
	srv.AddTool(deleteSubtaskTool(), deleteSubtask(svc))
	srv.AddTool(trashTaskTool(), trashTask(svc))
	srv.AddTool(restoreTaskTool(), restoreTask(svc))
	srv.AddTool(listTrashTool(), listTrash(svc))
	srv.AddTool(statisticsTool(), statistics(svc))
}

func filterNames() []string {
	names := make([]string, 0, len(app.Filters))
	for _, f := range app.Filters {
		names = append(names, string(f))
	}
	return names
}

func sortNames() []string {
	names := make([]string, 0, len(app.SortKeys))
	for _, k := range app.SortKeys {
		names = append(names, string(k))
	}
	return names
}

func priorityNames() []string {
	names := make([]string, 0, len(task.Priorities))
	for _, p := range task.Priorities {
		names = append(names, string(p))
	}
	return names
}

func idArg(name, desc string) mcp.ToolOption {
	return mcp.WithString(name, mcp.Required(), mcp.Description(desc))
}

func progressArg() mcp.ToolOption {
	return mcp.WithNumber("progress",
		mcp.Required(),
		mcp.Description("Progress percentage. Values outside 0..100 are clamped."),
		mcp.Min(0),
		mcp.Max(100),
	)
}

func listTasksTool() mcp.Tool {
	return mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List the tasks of a month, filtered, sorted and optionally searched, with the month's stats."),
		mcp.WithNumber("month",
			mcp.Description("Zero-based month (0 = January). Defaults to the current month."),
			mcp.Min(0),
			mcp.Max(11),
		),
		mcp.WithNumber("year",
			mcp.Description("Four digit year. Defaults to the current year."),
		),
		mcp.WithString("filter",
			mcp.Description("Restrict the list to one status."),
			mcp.Enum(filterNames()...),
		),
		mcp.WithString("sort",
			mcp.Description("Ordering of the list."),
			mcp.Enum(sortNames()...),
		),
		mcp.WithString("search",
			mcp.Description("Case-insensitive search over title, category, priority, subtasks and due label. Searches every month when set."),
		),
	)
}

func listTasks(svc *Service) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Month  *int   `json:"month"`
			Year   *int   `json:"year"`
			Filter string `json:"filter"`
			Sort   string `json:"sort"`
			Search string `json:"search"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.ListTasks(ctx, ListOptions{
			Month:  args.Month,
			Year:   args.Year,
			Filter: args.Filter,
			Sort:   args.Sort,
			Search: args.Search,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func getTaskTool() mcp.Tool {
	return mcp.NewTool(
		"get_task",
		mcp.WithDescription("Fetch a single active task by identifier."),
		idArg("id", "Task identifier to fetch."),
	)
}

func getTask(svc *Service) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.GetTask(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func addTaskTool(svc *Service) mcp.Tool {
	return mcp.NewTool(
		"add_task",
		mcp.WithDescription("Create a task with no progress in the given month, or the current month."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title."),
		),
		mcp.WithString("priority",
			mcp.Description("Task priority. Defaults to medium."),
			mcp.Enum(priorityNames()...),
		),
		mcp.WithString("category",
			mcp.Description("Task category. Defaults to the first configured category."),
			mcp.Enum(svc.Categories...),
		),
		mcp.WithString("dueDate",
			mcp.Description("Optional due date as YYYY-MM-DD."),
		),
		mcp.WithNumber("month",
			mcp.Description("Zero-based month (0 = January)."),
			mcp.Min(0),
			mcp.Max(11),
		),
		mcp.WithNumber("year",
			mcp.Description("Four digit year."),
		),
	)
}

func addTask(svc *Service) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Title    string `json:"title"`
			Priority string `json:"priority"`
			Category string `json:"category"`
			DueDate  string `json:"dueDate"`
			Month    *int   `json:"month"`
			Year     *int   `json:"year"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.AddTask(ctx, AddTaskOptions{
			Title:    args.Title,
			Priority: args.Priority,
			Category: args.Category,
			DueDate:  args.DueDate,
			Month:    args.Month,
			Year:     args.Year,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func editTaskTool(svc *Service) mcp.Tool {
	return mcp.NewTool(
		"edit_task",
		mcp.WithDescription("Change the title, priority, category or due date of a task. Omitted fields are unchanged."),
		idArg("id", "Task identifier to edit."),
		mcp.WithString("title",
			mcp.Description("New title."),
		),
		mcp.WithString("priority",
			mcp.Description("New priority."),
			mcp.Enum(priorityNames()...),
		),
		mcp.WithString("category",
			mcp.Description("New category."),
			mcp.Enum(svc.Categories...),
		),
		mcp.WithString("dueDate",
			mcp.Description("New due date as YYYY-MM-DD. An empty string clears it."),
		),
	)
}

func editTask(svc *Service) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			ID       string  `json:"id"`
			Title    *string `json:"title"`
			Priority *string `json:"priority"`
			Category *string `json:"category"`
			DueDate  *string `json:"dueDate"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Title == nil && args.Priority == nil && args.Category == nil && args.DueDate == nil {
			return mcp.NewToolResultError("nothing to edit, set at least one of title, priority, category or dueDate"), nil
		}
		dto, err := svc.EditTask(ctx, args.ID, EditOptions{
			Title:    args.Title,
			Priority: args.Priority,
			Category: args.Category,
			DueDate:  args.DueDate,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func setProgressTool() mcp.Tool {
	return mcp.NewTool(
		"set_progress",
		mcp.WithDescription("Set the manual progress of a task. Tasks with subtasks report the subtask average instead."),
		idArg("id", "Task identifier."),
		progressArg(),
	)
}

func setProgress(svc *Service) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		progress, err := request.RequireFloat("progress")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.SetProgress(ctx, id, task.Round(progress))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func addSubtaskTool() mcp.Tool {
	return mcp.NewTool(
		"add_subtask",
		mcp.WithDescription("Append a subtask with no progress to a task."),
		idArg("taskId", "Parent task identifier."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Subtask title."),
		),
	)
}

func addSubtask(svc *Service) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		taskID, err := request.RequireString("taskId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		title, err := request.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.AddSubtask(ctx, taskID, title)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func setSubtaskProgressTool() mcp.Tool {
	return mcp.NewTool(
		"set_subtask_progress",
		mcp.WithDescription("Set the progress of one subtask."),
		idArg("taskId", "Parent task identifier."),
		idArg("subtaskId", "Subtask identifier."),
		progressArg(),
	)
}

func setSubtaskProgress(svc *Service) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		taskID, err := request.RequireString("taskId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		subtaskID, err := request.RequireString("subtaskId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		progress, err := request.RequireFloat("progress")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.SetSubtaskProgress(ctx, taskID, subtaskID, task.Round(progress))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func deleteSubtaskTool() mcp.Tool {
	return mcp.NewTool(
		"delete_subtask",
		mcp.WithDescription("Remove a subtask from its task."),
		idArg("taskId", "Parent task identifier."),
		idArg("subtaskId", "Subtask identifier."),
	)
}

func deleteSubtask(svc *Service) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		taskID, err := request.RequireString("taskId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		subtaskID, err := request.RequireString("subtaskId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.DeleteSubtask(ctx, taskID, subtaskID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func trashTaskTool() mcp.Tool {
	return mcp.NewTool(
		"trash_task",
		mcp.WithDescription("Move a task to the trash. It can be restored later."),
		idArg("id", "Task identifier to trash."),
	)
}

func trashTask(svc *Service) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.TrashTask(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func restoreTaskTool() mcp.Tool {
	return mcp.NewTool(
		"restore_task",
		mcp.WithDescription("Move a trashed task back to the active list."),
		idArg("id", "Trashed task identifier."),
	)
}

func restoreTask(svc *Service) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.RestoreTask(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func listTrashTool() mcp.Tool {
	return mcp.NewTool(
		"list_trash",
		mcp.WithDescription("List trashed tasks, most recently deleted first."),
	)
}

func listTrash(svc *Service) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		trash, err := svc.ListTrash(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"tasks": trash,
			"count": len(trash),
		})
	}
}

func statisticsTool() mcp.Tool {
	return mcp.NewTool(
		"statistics",
		mcp.WithDescription("Compute completion statistics over every active task."),
	)
}

func statistics(svc *Service) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, err := svc.Statistics(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(s)
	}
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
