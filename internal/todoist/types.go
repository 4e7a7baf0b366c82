package todoist

import (
	"strings"
)

// Default web URLs used when the API omits the url field.
const (
	taskURLPrefix    = "https://todoist.com/app/task/"
	projectURLPrefix = "https://todoist.com/app/project/"
)

// Task represents a Todoist task
type Task struct {
	ID           string   `json:"id"`
	ProjectID    string   `json:"project_id,omitempty"`
	SectionID    string   `json:"section_id,omitempty"`
	ParentID     string   `json:"parent_id,omitempty"`
	Content      string   `json:"content"`
	Description  string   `json:"description,omitempty"`
	IsCompleted  bool     `json:"is_completed"`
	Labels       []string `json:"labels,omitempty"`
	Order        int      `json:"order,omitempty"`
	Priority     int      `json:"priority,omitempty"`
	Due          *Due     `json:"due,omitempty"`
	URL          string   `json:"url,omitempty"`
	CommentCount int      `json:"comment_count,omitempty"`
	CreatedAt    string   `json:"created_at,omitempty"`
	CreatorID    string   `json:"creator_id,omitempty"`
	AssigneeID   string   `json:"assignee_id,omitempty"`
	AssignerID   string   `json:"assigner_id,omitempty"`
}

// EffectivePriority returns the task priority, treating unset as 1.
func (t Task) EffectivePriority() int {
	if t.Priority < 1 {
		return 1
	}
	return t.Priority
}

// WebURL returns the task URL, falling back to the canonical app link.
func (t Task) WebURL() string {
	if t.URL != "" {
		return t.URL
	}
	return taskURLPrefix + t.ID
}

// Due holds the due date information of a task.
type Due struct {
	Date        string `json:"date,omitempty"`
	String      string `json:"string,omitempty"`
	Datetime    string `json:"datetime,omitempty"`
	IsRecurring bool   `json:"is_recurring,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Lang        string `json:"lang,omitempty"`
}

// ValidDueDate is a year prefix sanity check, not full date validation.
func ValidDueDate(date string) bool {
	return date == "" || strings.HasPrefix(date, "20")
}

// Validate checks the due date sanity invariant.
func (d Due) Validate() error {
	if !ValidDueDate(d.Date) {
		return NewValidationError("Date must be in YYYY-MM-DD format")
	}
	return nil
}

// Display returns the human readable due text, preferring the natural
// language string over the date.
func (d *Due) Display() string {
	if d == nil {
		return ""
	}
	if d.String != "" {
		return d.String
	}
	return d.Date
}

// Project represents a Todoist project
type Project struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color,omitempty"`
	ParentID       string `json:"parent_id,omitempty"`
	Order          *int   `json:"order,omitempty"`
	CommentCount   int    `json:"comment_count,omitempty"`
	IsShared       bool   `json:"is_shared"`
	IsFavorite     bool   `json:"is_favorite"`
	IsInboxProject bool   `json:"is_inbox_project"`
	IsTeamInbox    bool   `json:"is_team_inbox"`
	ViewStyle      string `json:"view_style,omitempty"`
	URL            string `json:"url,omitempty"`
}

// DisplayColor returns the project color, defaulting to grey.
func (p Project) DisplayColor() string {
	if p.Color == "" {
		return ColorGrey
	}
	return p.Color
}

// WebURL returns the project URL, falling back to the canonical app link.
func (p Project) WebURL() string {
	if p.URL != "" {
		return p.URL
	}
	return projectURLPrefix + p.ID
}

// Label represents a Todoist personal label
type Label struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	Order      *int   `json:"order,omitempty"`
	IsFavorite bool   `json:"is_favorite"`
}

// DisplayColor returns the label color, defaulting to grey.
func (l Label) DisplayColor() string {
	if l.Color == "" {
		return ColorGrey
	}
	return l.Color
}

// TaskQuery holds the query parameters of GET /tasks.
// Label is a label name; the REST API does not filter by label id.
type TaskQuery struct {
	ProjectID string   `url:"project_id,omitempty"`
	SectionID string   `url:"section_id,omitempty"`
	Label     string   `url:"label,omitempty"`
	Filter    string   `url:"filter,omitempty"`
	Lang      string   `url:"lang,omitempty"`
	IDs       []string `url:"ids,comma,omitempty"`
}

// TaskCreate is the request body of POST /tasks.
type TaskCreate struct {
	Content     string   `json:"content"`
	Description string   `json:"description,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
	SectionID   string   `json:"section_id,omitempty"`
	ParentID    string   `json:"parent_id,omitempty"`
	Order       int      `json:"order,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Priority    int      `json:"priority,omitempty"`
	DueString   string   `json:"due_string,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	DueDatetime string   `json:"due_datetime,omitempty"`
	DueLang     string   `json:"due_lang,omitempty"`
	AssigneeID  string   `json:"assignee_id,omitempty"`
}

// TaskUpdate is a partial update of a task. Nil fields are left unchanged.
type TaskUpdate struct {
	Content     *string   `json:"content,omitempty"`
	Description *string   `json:"description,omitempty"`
	ProjectID   *string   `json:"project_id,omitempty"`
	SectionID   *string   `json:"section_id,omitempty"`
	ParentID    *string   `json:"parent_id,omitempty"`
	Labels      *[]string `json:"labels,omitempty"`
	Priority    *int      `json:"priority,omitempty"`
	DueString   *string   `json:"due_string,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	DueDatetime *string   `json:"due_datetime,omitempty"`
	DueLang     *string   `json:"due_lang,omitempty"`
	AssigneeID  *string   `json:"assignee_id,omitempty"`
}

// ProjectCreate is the request body of POST /projects.
type ProjectCreate struct {
	Name       string `json:"name"`
	ParentID   string `json:"parent_id,omitempty"`
	Color      string `json:"color,omitempty"`
	IsFavorite bool   `json:"is_favorite"`
	ViewStyle  string `json:"view_style,omitempty"`
}

// ProjectUpdate is a partial update of a project.
type ProjectUpdate struct {
	Name       *string `json:"name,omitempty"`
	Color      *string `json:"color,omitempty"`
	IsFavorite *bool   `json:"is_favorite,omitempty"`
	ViewStyle  *string `json:"view_style,omitempty"`
}

// LabelCreate is the request body of POST /labels.
type LabelCreate struct {
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	Order      int    `json:"order,omitempty"`
	IsFavorite bool   `json:"is_favorite"`
}

// LabelUpdate is a partial update of a label.
type LabelUpdate struct {
	Name       *string `json:"name,omitempty"`
	Color      *string `json:"color,omitempty"`
	Order      *int    `json:"order,omitempty"`
	IsFavorite *bool   `json:"is_favorite,omitempty"`
}

// Priority levels as shown in the Todoist apps (4 is the most urgent).
var priorityLabels = map[int]string{
	1: "🔵 Low",
	2: "⚪ Normal",
	3: "🟠 Medium",
	4: "🔴 High",
}

// PriorityLabel returns the display label for a priority, or "" if unknown.
func PriorityLabel(priority int) string {
	return priorityLabels[priority]
}
