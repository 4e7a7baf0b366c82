package operations

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/teemow/mcp-todoist/internal/todoist"
)

const (
	tagColor     = "todoist_color"
	tagDueDate   = "due_date"
	tagViewStyle = "oneof=list board"
)

const (
	msgPriority  = "Priority must be between 1 and 4"
	msgDueDate   = "Date must be in YYYY-MM-DD format"
	msgViewStyle = "View style must be list or board"
)

// Messages for missing required fields, keyed by struct namespace.
var requiredMessages = map[string]string{
	"TaskCreateRequest.Content": "Task content is required",
	"ProjectCreateRequest.Name": "Project name is required",
	"LabelCreateRequest.Name":   "Label name is required",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	custom := map[string]validator.Func{
		tagColor: func(fl validator.FieldLevel) bool {
			return todoist.IsValidColor(fl.Field().String())
		},
		tagDueDate: func(fl validator.FieldLevel) bool {
			return todoist.ValidDueDate(fl.Field().String())
		},
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}

// check validates a request struct and reports the first failure as a
// ValidationError.
func check(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return todoist.NewValidationError(err.Error())
	}
	return fieldError(verrs[0])
}

// checkColor validates an optional color of a partial update.
func checkColor(color *string) error {
	if color == nil {
		return nil
	}
	if err := validate.Var(*color, tagColor); err != nil {
		return todoist.ColorError()
	}
	return nil
}

// checkViewStyle validates an optional view style of a partial update.
func checkViewStyle(style *string) error {
	if style == nil {
		return nil
	}
	if err := validate.Var(*style, tagViewStyle); err != nil {
		return todoist.NewValidationError(msgViewStyle)
	}
	return nil
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		if msg, ok := requiredMessages[fe.StructNamespace()]; ok {
			return todoist.NewValidationError(msg)
		}
		return todoist.NewValidationError(fe.Field() + " is required")
	case "min", "max":
		if fe.Field() == "Priority" {
			return todoist.NewValidationError(msgPriority)
		}
	case tagColor:
		return todoist.ColorError()
	case tagDueDate:
		return todoist.NewValidationError(msgDueDate)
	case "oneof":
		if fe.Field() == "ViewStyle" {
			return todoist.NewValidationError(msgViewStyle)
		}
	}
	return todoist.NewValidationError(fe.Error())
}
