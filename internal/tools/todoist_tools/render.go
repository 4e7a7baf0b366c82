package todoist_tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teemow/mcp-todoist/internal/operations"
	"github.com/teemow/mcp-todoist/internal/todoist"
)

const (
	descriptionPreviewLen = 100
	// Entries without an order sort last.
	unorderedPosition = 999
)

func formatTaskList(tasks []todoist.Task) string {
	if len(tasks) == 0 {
		return "No tasks found matching your criteria."
	}

	entries := make([]string, 0, len(tasks))
	for _, task := range tasks {
		entries = append(entries, formatTaskEntry(task))
	}
	return "# Todoist Tasks\n\n" + strings.Join(entries, "\n\n")
}

func formatTaskEntry(task todoist.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "• %s\n  ID: %s", task.Content, task.ID)
	if due := task.Due.Display(); due != "" {
		fmt.Fprintf(&b, "\n  Due: %s", due)
	}
	if priority := todoist.PriorityLabel(task.Priority); priority != "" {
		fmt.Fprintf(&b, "\n  Priority: %s", priority)
	}
	if len(task.Labels) > 0 {
		fmt.Fprintf(&b, "\n  Labels: %s", formatLabelNames(task.Labels))
	}
	if task.Description != "" {
		fmt.Fprintf(&b, "\n  Description: %s", preview(task.Description))
	}
	return b.String()
}

// formatTaskDetail renders a created or updated task.
func formatTaskDetail(action string, task *todoist.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Task %s Successfully\n\n**%s**\n\nID: `%s`\n", action, task.Content, task.ID)
	if due := task.Due.Display(); due != "" {
		fmt.Fprintf(&b, "Due: %s\n", due)
	}
	if priority := todoist.PriorityLabel(task.Priority); priority != "" {
		fmt.Fprintf(&b, "Priority: %s\n", priority)
	}
	if len(task.Labels) > 0 {
		fmt.Fprintf(&b, "Labels: %s\n", formatLabelNames(task.Labels))
	}
	if task.Description != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", task.Description)
	}
	fmt.Fprintf(&b, "\nView in Todoist: %s", task.WebURL())
	return b.String()
}

func formatConfirmation(entity, action, name, id, outcome string) string {
	return fmt.Sprintf("# %s %s Successfully\n\nThe %s **%s** (ID: `%s`) %s.",
		entity, action, strings.ToLower(entity), name, id, outcome)
}

// formatProjectTree renders projects nested below their parents. Projects
// whose parent is not in the list are shown at the top level.
func formatProjectTree(projects []todoist.Project) string {
	if len(projects) == 0 {
		return "You don't have any projects in your Todoist account."
	}

	known := make(map[string]bool, len(projects))
	for _, p := range projects {
		known[p.ID] = true
	}

	children := make(map[string][]todoist.Project)
	var roots []todoist.Project
	for _, p := range projects {
		if p.ParentID != "" && known[p.ParentID] && p.ParentID != p.ID {
			children[p.ParentID] = append(children[p.ParentID], p)
			continue
		}
		roots = append(roots, p)
	}

	sortProjects(roots)
	entries := make([]string, 0, len(roots))
	for _, root := range roots {
		var b strings.Builder
		writeProject(&b, root, children, 0)
		entries = append(entries, b.String())
	}
	return "# Todoist Projects\n\n" + strings.Join(entries, "\n")
}

func writeProject(b *strings.Builder, p todoist.Project, children map[string][]todoist.Project, level int) {
	indent := strings.Repeat("  ", level)

	b.WriteString(indent + "• ")
	if p.IsFavorite {
		b.WriteString("⭐ ")
	}
	b.WriteString(p.Name)
	if p.IsInboxProject {
		b.WriteString(" (Inbox)")
	}
	fmt.Fprintf(b, "\n%s  ID: %s\n%s  Color: %s\n", indent, p.ID, indent, p.DisplayColor())

	kids := children[p.ID]
	sortProjects(kids)
	for _, child := range kids {
		writeProject(b, child, children, level+1)
	}
}

func sortProjects(projects []todoist.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return position(projects[i].Order, false) < position(projects[j].Order, false)
	})
}

// position returns the sort key of an optional order.
func position(order *int, zeroUnset bool) int {
	if order == nil || (zeroUnset && *order == 0) {
		return unorderedPosition
	}
	return *order
}

func formatProjectDetail(action string, result *operations.ProjectResult) string {
	p := result.Project

	var b strings.Builder
	fmt.Fprintf(&b, "# Project %s Successfully\n\n**%s**\n\nID: `%s`\nColor: %s\n", action, p.Name, p.ID, p.DisplayColor())
	switch {
	case result.ParentName != "":
		fmt.Fprintf(&b, "Parent Project: %s\n", result.ParentName)
	case p.ParentID != "":
		fmt.Fprintf(&b, "Parent Project ID: %s\n", p.ParentID)
	}
	if p.IsFavorite {
		b.WriteString("Favorite: Yes\n")
	}
	fmt.Fprintf(&b, "\nView in Todoist: %s", p.WebURL())
	return b.String()
}

func formatLabelList(labels []todoist.Label) string {
	if len(labels) == 0 {
		return "You don't have any labels in your Todoist account."
	}

	sorted := make([]todoist.Label, len(labels))
	copy(sorted, labels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return position(sorted[i].Order, true) < position(sorted[j].Order, true)
	})

	entries := make([]string, 0, len(sorted))
	for _, l := range sorted {
		star := ""
		if l.IsFavorite {
			star = "⭐ "
		}
		entries = append(entries, fmt.Sprintf("• %s@%s\n  ID: %s\n  Color: %s\n", star, l.Name, l.ID, l.DisplayColor()))
	}
	return "# Todoist Labels\n\n" + strings.Join(entries, "\n")
}

func formatLabelDetail(action string, label *todoist.Label) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Label %s Successfully\n\n**@%s**\n\nID: `%s`\nColor: %s\n", action, label.Name, label.ID, label.DisplayColor())
	if label.IsFavorite {
		b.WriteString("Favorite: Yes\n")
	}
	if action == "Created" {
		fmt.Fprintf(&b, "\nUse this label in tasks by including '@%s' in your task content.", label.Name)
	}
	return b.String()
}

func formatLabelNames(names []string) string {
	decorated := make([]string, len(names))
	for i, name := range names {
		decorated[i] = "@" + name
	}
	return strings.Join(decorated, ", ")
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= descriptionPreviewLen {
		return text
	}
	return string(runes[:descriptionPreviewLen]) + "..."
}
