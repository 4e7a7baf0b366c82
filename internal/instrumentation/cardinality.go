package instrumentation

// Label values are bounded so that arbitrary error text or user input never
// becomes a metric label.

// Error kinds, mirroring the todoist error taxonomy.
const (
	ErrorKindValidation     = "validation"
	ErrorKindAuthentication = "authentication"
	ErrorKindService        = "service"
	ErrorKindInternal       = "internal"
)

// Todoist entities used as the entity label.
const (
	EntityTask    = "task"
	EntityProject = "project"
	EntityLabel   = "label"
)

// Tool operation types.
const (
	OperationList     = "list"
	OperationCreate   = "create"
	OperationUpdate   = "update"
	OperationDelete   = "delete"
	OperationComplete = "complete"
	OperationReopen   = "reopen"
)

// ErrorKindLabel maps kind to one of the ErrorKind constants.
//
// Example:
//
//	ErrorKindLabel("validation")  // "validation"
//	ErrorKindLabel("boom")        // "internal"
func ErrorKindLabel(kind string) string {
	switch kind {
	case ErrorKindValidation, ErrorKindAuthentication, ErrorKindService:
		return kind
	default:
		return ErrorKindInternal
	}
}
