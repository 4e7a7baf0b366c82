package todoist

import (
	"fmt"
	"strings"
)

// Filter clauses in the Todoist filter language.
const (
	FilterDueToday    = "today"
	FilterDueUpcoming = "today | overdue | 7 days"
)

// FilterSpec combines a free text filter with independent toggles.
// Priority 0 means no priority clause.
type FilterSpec struct {
	Base        string
	DueToday    bool
	DueUpcoming bool
	Priority    int
}

// Compose builds the conjunctive filter expression. Clauses are applied in a
// fixed order (base, due today, due upcoming, priority) and the accumulator
// is parenthesized before every join, so the output is deterministic.
func (f FilterSpec) Compose() string {
	var clauses []string
	if f.Base != "" {
		clauses = append(clauses, f.Base)
	}
	if f.DueToday {
		clauses = append(clauses, FilterDueToday)
	}
	if f.DueUpcoming {
		clauses = append(clauses, FilterDueUpcoming)
	}
	if f.Priority >= 1 && f.Priority <= 4 {
		clauses = append(clauses, fmt.Sprintf("p%d", f.Priority))
	}

	if len(clauses) == 0 {
		return ""
	}
	acc := clauses[0]
	for _, clause := range clauses[1:] {
		acc = "(" + wrap(acc) + " & " + term(clause) + ")"
	}
	return acc
}

// ComposeFilter is shorthand for FilterSpec.Compose.
func ComposeFilter(base string, dueToday, dueUpcoming bool, priority int) string {
	return FilterSpec{
		Base:        base,
		DueToday:    dueToday,
		DueUpcoming: dueUpcoming,
		Priority:    priority,
	}.Compose()
}

// wrap parenthesizes expr unless one balanced pair already encloses all of it.
func wrap(expr string) string {
	if enclosed(expr) {
		return expr
	}
	return "(" + expr + ")"
}

func term(clause string) string {
	if strings.Contains(clause, "|") {
		return "(" + clause + ")"
	}
	return clause
}

func enclosed(expr string) bool {
	if len(expr) < 2 || expr[0] != '(' || expr[len(expr)-1] != ')' {
		return false
	}
	depth := 0
	for i, r := range expr {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(expr)-1 {
				return false
			}
		}
	}
	return depth == 0
}
