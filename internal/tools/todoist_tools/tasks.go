package todoist_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mcp-todoist/internal/instrumentation"
	"github.com/teemow/mcp-todoist/internal/operations"
	"github.com/teemow/mcp-todoist/internal/server"
	"github.com/teemow/mcp-todoist/internal/tools/common"
)

// registerTaskTools registers task tools
func registerTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) {
	listTasksTool := mcp.NewTool("list-tasks",
		mcp.WithDescription("List active Todoist tasks. Filter by project, section, label, due date, priority or a Todoist filter expression."),
		mcp.WithString("project_id",
			mcp.Description("Only list tasks in this project"),
		),
		mcp.WithString("project_name",
			mcp.Description("Only list tasks in the project with this name (ignored when project_id is set)"),
		),
		mcp.WithString("section_id",
			mcp.Description("Only list tasks in this section"),
		),
		mcp.WithString("label_id",
			mcp.Description("Only list tasks with this label"),
		),
		mcp.WithString("label_name",
			mcp.Description("Only list tasks with the label of this name (ignored when label_id is set)"),
		),
		mcp.WithString("filter_string",
			mcp.Description("Todoist filter expression, e.g. 'today | overdue' or '#Work & p1'"),
		),
		mcp.WithBoolean("due_today",
			mcp.Description("Only list tasks due today"),
		),
		mcp.WithBoolean("due_upcoming",
			mcp.Description("Only list tasks that are overdue or due within the next 7 days"),
		),
		mcp.WithBoolean("completed",
			mcp.Description("Include completed tasks. The REST API only returns active tasks, so this has no effect."),
		),
		priorityOption("Only list tasks with this priority (1 low to 4 urgent)"),
		limitOption(),
	)
	addTool(s, sc, listTasksTool, instrumentation.EntityTask, instrumentation.OperationList,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			p := common.NewParser(request.GetArguments())
			req := operations.TaskListRequest{
				ProjectID:   p.String("project_id"),
				ProjectName: p.String("project_name"),
				SectionID:   p.String("section_id"),
				LabelID:     p.String("label_id"),
				LabelName:   p.String("label_name"),
				Filter:      p.String("filter_string"),
				DueToday:    p.Bool("due_today", false),
				DueUpcoming: p.Bool("due_upcoming", false),
				Completed:   p.Bool("completed", false),
				Priority:    p.Int("priority", 0),
				Limit:       operations.LimitOrDefault(p.OptionalInt("limit")),
			}
			if err := p.Err(); err != nil {
				return nil, err
			}

			svc, err := sc.Operations()
			if err != nil {
				return nil, err
			}
			tasks, err := svc.ListTasks(ctx, req)
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(formatTaskList(tasks)), nil
		})

	if readOnly {
		return
	}

	createTaskTool := mcp.NewTool("create-task",
		mcp.WithDescription("Create a new Todoist task"),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The task title"),
		),
		mcp.WithString("description",
			mcp.Description("Longer task description"),
		),
		mcp.WithString("project_id",
			mcp.Description("Project to add the task to (defaults to the Inbox)"),
		),
		mcp.WithString("project_name",
			mcp.Description("Name of the project to add the task to (ignored when project_id is set)"),
		),
		mcp.WithString("section_id",
			mcp.Description("Section to add the task to"),
		),
		mcp.WithString("parent_id",
			mcp.Description("Parent task id, to create a sub-task"),
		),
		mcp.WithArray("labels",
			mcp.Description("Label names to attach"),
			mcp.WithStringItems(),
		),
		priorityOption("Task priority from 1 (low) to 4 (urgent)", mcp.DefaultNumber(1)),
		mcp.WithString("due_string",
			mcp.Description("Natural language due date, e.g. 'tomorrow at 5pm' or 'every monday'"),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date in YYYY-MM-DD format"),
		),
		mcp.WithString("due_datetime",
			mcp.Description("Due date and time in RFC 3339 format"),
		),
	)
	addTool(s, sc, createTaskTool, instrumentation.EntityTask, instrumentation.OperationCreate,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			p := common.NewParser(request.GetArguments())
			req := operations.TaskCreateRequest{
				Content:     p.String("content"),
				Description: p.String("description"),
				ProjectID:   p.String("project_id"),
				ProjectName: p.String("project_name"),
				SectionID:   p.String("section_id"),
				ParentID:    p.String("parent_id"),
				Labels:      p.StringSlice("labels"),
				Priority:    p.Int("priority", 0),
				DueString:   p.String("due_string"),
				DueDate:     p.String("due_date"),
				DueDatetime: p.String("due_datetime"),
			}
			if err := p.Err(); err != nil {
				return nil, err
			}

			svc, err := sc.Operations()
			if err != nil {
				return nil, err
			}
			task, err := svc.CreateTask(ctx, req)
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(formatTaskDetail("Created", task)), nil
		})

	updateTaskTool := mcp.NewTool("update-task",
		mcp.WithDescription("Update an existing Todoist task. Only the given fields are changed."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task to update"),
		),
		mcp.WithString("content",
			mcp.Description("New task title"),
		),
		mcp.WithString("description",
			mcp.Description("New task description"),
		),
		mcp.WithString("project_id",
			mcp.Description("Move the task to this project"),
		),
		mcp.WithString("project_name",
			mcp.Description("Move the task to the project with this name (ignored when project_id is set)"),
		),
		mcp.WithString("section_id",
			mcp.Description("Move the task to this section"),
		),
		mcp.WithString("parent_id",
			mcp.Description("Make the task a sub-task of this task"),
		),
		mcp.WithArray("labels",
			mcp.Description("Replace the task labels with these label names"),
			mcp.WithStringItems(),
		),
		priorityOption("New priority from 1 (low) to 4 (urgent)"),
		mcp.WithString("due_string",
			mcp.Description("Natural language due date"),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date in YYYY-MM-DD format"),
		),
		mcp.WithString("due_datetime",
			mcp.Description("Due date and time in RFC 3339 format"),
		),
	)
	addTool(s, sc, updateTaskTool, instrumentation.EntityTask, instrumentation.OperationUpdate,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			p := common.NewParser(request.GetArguments())
			id := p.String("task_id")
			req := operations.TaskUpdateRequest{
				Content:     p.OptionalString("content"),
				Description: p.OptionalString("description"),
				ProjectID:   p.OptionalString("project_id"),
				ProjectName: p.String("project_name"),
				SectionID:   p.OptionalString("section_id"),
				ParentID:    p.OptionalString("parent_id"),
				Labels:      p.OptionalStringSlice("labels"),
				Priority:    p.OptionalInt("priority"),
				DueString:   p.OptionalString("due_string"),
				DueDate:     p.OptionalString("due_date"),
				DueDatetime: p.OptionalString("due_datetime"),
			}
			if err := p.Err(); err != nil {
				return nil, err
			}

			svc, err := sc.Operations()
			if err != nil {
				return nil, err
			}
			task, err := svc.UpdateTask(ctx, id, req)
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(formatTaskDetail("Updated", task)), nil
		})

	addTool(s, sc, taskActionTool("complete-task", "Mark a Todoist task as completed"),
		instrumentation.EntityTask, instrumentation.OperationComplete,
		taskActionHandler(sc, "Completed", "has been marked as completed",
			func(svc *operations.Service) func(context.Context, string) (*operations.Confirmation, error) {
				return svc.CompleteTask
			}))

	addTool(s, sc, taskActionTool("reopen-task", "Reopen a completed Todoist task"),
		instrumentation.EntityTask, instrumentation.OperationReopen,
		taskActionHandler(sc, "Reopened", "has been reopened",
			func(svc *operations.Service) func(context.Context, string) (*operations.Confirmation, error) {
				return svc.ReopenTask
			}))

	addTool(s, sc, taskActionTool("delete-task", "Permanently delete a Todoist task"),
		instrumentation.EntityTask, instrumentation.OperationDelete,
		taskActionHandler(sc, "Deleted", "has been deleted",
			func(svc *operations.Service) func(context.Context, string) (*operations.Confirmation, error) {
				return svc.DeleteTask
			}))
}

func taskActionTool(name, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task id"),
		),
	)
}

// taskActionHandler builds the handler shared by complete, reopen and delete.
func taskActionHandler(
	sc *server.ServerContext,
	title, outcome string,
	action func(*operations.Service) func(context.Context, string) (*operations.Confirmation, error),
) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := common.String(request.GetArguments(), "task_id")
		if err != nil {
			return nil, err
		}

		svc, err := sc.Operations()
		if err != nil {
			return nil, err
		}
		confirmation, err := action(svc)(ctx, id)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(formatConfirmation("Task", title, confirmation.Name, confirmation.ID, outcome)), nil
	}
}
