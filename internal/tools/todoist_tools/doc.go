// Package todoist_tools provides MCP tools for managing Todoist tasks,
// projects and labels.
//
// Handlers parse the loosely typed tool arguments, delegate to the
// operations service and render the result as text for the assistant.
// Errors are returned as plain Go errors; the common instrumentation
// middleware turns them into MCP error results.
//
// # Available Tools
//
// Tasks:
//   - list-tasks: List active tasks with project, label and filter options
//   - create-task: Create a task
//   - update-task: Update a task
//   - complete-task: Mark a task as completed
//   - reopen-task: Reopen a completed task
//   - delete-task: Delete a task
//
// Projects:
//   - list-projects: Show the project tree
//   - create-project: Create a project, optionally below a parent
//   - update-project: Update a project by id or name
//   - delete-project: Delete a project by id or name
//
// Labels:
//   - list-labels: List personal labels
//   - create-label: Create a label
//   - update-label: Update a label by id or name
//   - delete-label: Delete a label by id or name
//
// # Read-only Mode
//
// In read-only mode only the list tools are registered.
package todoist_tools
