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

// registerLabelTools registers label tools
func registerLabelTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) {
	listLabelsTool := mcp.NewTool("list-labels",
		mcp.WithDescription("List personal Todoist labels"),
		limitOption(),
	)
	addTool(s, sc, listLabelsTool, instrumentation.EntityLabel, instrumentation.OperationList,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			limit, err := common.OptionalInt(request.GetArguments(), "limit")
			if err != nil {
				return nil, err
			}

			svc, err := sc.Operations()
			if err != nil {
				return nil, err
			}
			labels, err := svc.ListLabels(ctx, operations.LimitOrDefault(limit))
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(formatLabelList(labels)), nil
		})

	if readOnly {
		return
	}

	createLabelTool := mcp.NewTool("create-label",
		mcp.WithDescription("Create a new personal Todoist label"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The label name, without the leading @"),
		),
		colorOption("Label color"),
		mcp.WithNumber("order",
			mcp.Description("Position of the label in the label list"),
			mcp.Min(0),
		),
		mcp.WithBoolean("favorite",
			mcp.Description("Mark the label as favorite"),
			mcp.DefaultBool(true),
		),
	)
	addTool(s, sc, createLabelTool, instrumentation.EntityLabel, instrumentation.OperationCreate,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			p := common.NewParser(request.GetArguments())
			req := operations.LabelCreateRequest{
				Name:     p.String("name"),
				Color:    p.String("color"),
				Order:    p.Int("order", 0),
				Favorite: p.Bool("favorite", true),
			}
			if err := p.Err(); err != nil {
				return nil, err
			}

			svc, err := sc.Operations()
			if err != nil {
				return nil, err
			}
			label, err := svc.CreateLabel(ctx, req)
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(formatLabelDetail("Created", label)), nil
		})

	updateLabelTool := mcp.NewTool("update-label",
		mcp.WithDescription("Update a personal Todoist label, identified by id or name. Only the given fields are changed."),
		mcp.WithString("label_id",
			mcp.Description("The label to update"),
		),
		mcp.WithString("label_name",
			mcp.Description("Name of the label to update (ignored when label_id is set)"),
		),
		mcp.WithString("name",
			mcp.Description("New label name"),
		),
		colorOption("New label color"),
		mcp.WithNumber("order",
			mcp.Description("New position of the label in the label list"),
			mcp.Min(0),
		),
		mcp.WithBoolean("favorite",
			mcp.Description("Mark or unmark the label as favorite"),
		),
	)
	addTool(s, sc, updateLabelTool, instrumentation.EntityLabel, instrumentation.OperationUpdate,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			p := common.NewParser(request.GetArguments())
			ref := labelRef(p)
			update := todoist.LabelUpdate{
				Name:       p.OptionalString("name"),
				Color:      p.OptionalString("color"),
				Order:      p.OptionalInt("order"),
				IsFavorite: p.OptionalBool("favorite"),
			}
			if err := p.Err(); err != nil {
				return nil, err
			}

			svc, err := sc.Operations()
			if err != nil {
				return nil, err
			}
			label, err := svc.UpdateLabel(ctx, ref, update)
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(formatLabelDetail("Updated", label)), nil
		})

	deleteLabelTool := mcp.NewTool("delete-label",
		mcp.WithDescription("Delete a personal Todoist label, identified by id or name. The label is removed from all tasks."),
		mcp.WithString("label_id",
			mcp.Description("The label to delete"),
		),
		mcp.WithString("label_name",
			mcp.Description("Name of the label to delete (ignored when label_id is set)"),
		),
	)
	addTool(s, sc, deleteLabelTool, instrumentation.EntityLabel, instrumentation.OperationDelete,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			p := common.NewParser(request.GetArguments())
			ref := labelRef(p)
			if err := p.Err(); err != nil {
				return nil, err
			}

			svc, err := sc.Operations()
			if err != nil {
				return nil, err
			}
			confirmation, err := svc.DeleteLabel(ctx, ref)
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(
				formatConfirmation("Label", "Deleted", "@"+confirmation.Name, confirmation.ID, "has been deleted")), nil
		})
}

func labelRef(p *common.Parser) todoist.Reference {
	return todoist.Reference{ID: p.String("label_id"), Name: p.String("label_name")}
}
