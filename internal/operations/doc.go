// Package operations implements the Todoist operations behind the MCP tools.
//
// Every operation follows one of two shapes. Reads validate the request,
// resolve project and label names to ids, compose the filter expression,
// perform a single list call and truncate the result. Mutations validate,
// resolve, call the remote service, turn a false success flag into a
// ServiceError and re-read the entity so callers see the stored state.
//
// Operations return entities, never rendered text.
package operations
