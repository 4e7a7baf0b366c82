package todoist_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mcp-todoist/internal/instrumentation"
	"github.com/teemow/mcp-todoist/internal/operations"
	"github.com/teemow/mcp-todoist/internal/server"
	"github.com/teemow/mcp-todoist/internal/todoist"
	"github.com/teemow/mcp-todoist/internal/tools/common"
)

// registerProjectTools registers project tools
func registerProjectTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) {
	listProjectsTool := mcp.NewTool("list-projects",
		mcp.WithDescription("List Todoist projects as a tree"),
		limitOption(),
	)
	addTool(s, sc, listProjectsTool, instrumentation.EntityProject, instrumentation.OperationList,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			limit, err := common.OptionalInt(request.GetArguments(), "limit")
			if err != nil {
				return nil, err
			}

			svc, err := sc.Operations()
			if err != nil {
				return nil, err
			}
			projects, err := svc.ListProjects(ctx, operations.LimitOrDefault(limit))
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(formatProjectTree(projects)), nil
		})

	if readOnly {
		return
	}

	createProjectTool := mcp.NewTool("create-project",
		mcp.WithDescription("Create a new Todoist project"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The project name"),
		),
		colorOption("Project color"),
		mcp.WithString("parent_id",
			mcp.Description("Create the project below this parent project"),
		),
		mcp.WithString("parent_name",
			mcp.Description("Create the project below the project with this name (ignored when parent_id is set)"),
		),
		mcp.WithBoolean("favorite",
			mcp.Description("Mark the project as favorite"),
			mcp.DefaultBool(false),
		),
		mcp.WithString("view_style",
			mcp.Description("How the project is displayed in the Todoist apps"),
			mcp.Enum("list", "board"),
		),
	)
	addTool(s, sc, createProjectTool, instrumentation.EntityProject, instrumentation.OperationCreate,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			p := common.NewParser(request.GetArguments())
			req := operations.ProjectCreateRequest{
				Name:       p.String("name"),
				Color:      p.String("color"),
				ParentID:   p.String("parent_id"),
				ParentName: p.String("parent_name"),
				Favorite:   p.Bool("favorite", false),
				ViewStyle:  p.String("view_style"),
			}
			if err := p.Err(); err != nil {
				return nil, err
			}

			svc, err := sc.Operations()
			if err != nil {
				return nil, err
			}
			result, err := svc.CreateProject(ctx, req)
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(formatProjectDetail("Created", result)), nil
		})

	updateProjectTool := mcp.NewTool("update-project",
		mcp.WithDescription("Update a Todoist project, identified by id or name. Only the given fields are changed."),
		mcp.WithString("project_id",
			mcp.Description("The project to update"),
		),
		mcp.WithString("project_name",
			mcp.Description("Name of the project to update (ignored when project_id is set)"),
		),
		mcp.WithString("name",
			mcp.Description("New project name"),
		),
		colorOption("New project color"),
		mcp.WithBoolean("favorite",
			mcp.Description("Mark or unmark the project as favorite"),
		),
		mcp.WithString("view_style",
			mcp.Description("How the project is displayed in the Todoist apps"),
			mcp.Enum("list", "board"),
		),
	)
	addTool(s, sc, updateProjectTool, instrumentation.EntityProject, instrumentation.OperationUpdate,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			p := common.NewParser(request.GetArguments())
			ref := projectRef(p)
			update := todoist.ProjectUpdate{
				Name:       p.OptionalString("name"),
				Color:      p.OptionalString("color"),
				IsFavorite: p.OptionalBool("favorite"),
				ViewStyle:  p.OptionalString("view_style"),
			}
			if err := p.Err(); err != nil {
				return nil, err
			}

			svc, err := sc.Operations()
			if err != nil {
				return nil, err
			}
			result, err := svc.UpdateProject(ctx, ref, update)
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(formatProjectDetail("Updated", result)), nil
		})

	deleteProjectTool := mcp.NewTool("delete-project",
		mcp.WithDescription("Delete a Todoist project, identified by id or name, together with its tasks"),
		mcp.WithString("project_id",
			mcp.Description("The project to delete"),
		),
		mcp.WithString("project_name",
			mcp.Description("Name of the project to delete (ignored when project_id is set)"),
		),
	)
	addTool(s, sc, deleteProjectTool, instrumentation.EntityProject, instrumentation.OperationDelete,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			p := common.NewParser(request.GetArguments())
			ref := projectRef(p)
			if err := p.Err(); err != nil {
				return nil, err
			}

			svc, err := sc.Operations()
			if err != nil {
				return nil, err
			}
			confirmation, err := svc.DeleteProject(ctx, ref)
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(
				formatConfirmation("Project", "Deleted", confirmation.Name, confirmation.ID, "has been deleted")), nil
		})
}

func projectRef(p *common.Parser) todoist.Reference {
	return todoist.Reference{ID: p.String("project_id"), Name: p.String("project_name")}
}
