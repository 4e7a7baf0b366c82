package todoist

import "strings"

// ColorGrey is the color Todoist assigns when none is given.
const ColorGrey = "grey"

// Colors lists the palette accepted by Todoist for projects and labels.
var Colors = []string{
	"berry_red",
	"red",
	"orange",
	"yellow",
	"olive_green",
	"lime_green",
	"green",
	"mint_green",
	"teal",
	"sky_blue",
	"light_blue",
	"blue",
	"grape",
	"violet",
	"lavender",
	"magenta",
	"salmon",
	"charcoal",
	ColorGrey,
	"taupe",
}

// IsValidColor reports whether color belongs to the palette.
func IsValidColor(color string) bool {
	for _, c := range Colors {
		if c == color {
			return true
		}
	}
	return false
}

// ColorError returns the validation error for an unknown color.
func ColorError() *ValidationError {
	return NewValidationError("Color must be one of: " + strings.Join(Colors, ", "))
}
