// Package models defines the record schemas shared by the storage adapter,
// service layer, and HTTP handlers.
package models

import (
	"encoding/json"
	"time"
)

// Case status values.
const (
	CaseStatusOpen       = "open"
	CaseStatusInProgress = "in_progress"
	CaseStatusClosed     = "closed"
)

// Case priority values.
const (
	CasePriorityLow      = "low"
	CasePriorityMedium   = "medium"
	CasePriorityHigh     = "high"
	CasePriorityCritical = "critical"
)

// Comment types.
const (
	CommentTypeUser   = "user"
	CommentTypeSystem = "system"
)

// Alert status values.
const (
	AlertStatusActive       = "active"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusCompleted    = "completed"
)

// ValidCaseStatus reports whether s is a recognized case status.
func ValidCaseStatus(s string) bool {
	switch s {
	case CaseStatusOpen, CaseStatusInProgress, CaseStatusClosed:
		return true
	}
	return false
}

// ValidCasePriority reports whether p is a recognized case priority.
func ValidCasePriority(p string) bool {
	switch p {
	case CasePriorityLow, CasePriorityMedium, CasePriorityHigh, CasePriorityCritical:
		return true
	}
	return false
}

// Case is the primary tracked work item.
type Case struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	Priority         string          `json:"priority"`
	Tags             []string        `json:"tags"`
	AssignedTo       string          `json:"assigned_to,omitempty"`
	AssignedToName   string          `json:"assigned_to_name,omitempty"`
	CreatedBy        string          `json:"created_by"`
	CreatedByName    string          `json:"created_by_name"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	ClosedAt         *time.Time      `json:"closed_at,omitempty"`
	CommentsCount    int             `json:"comments_count"`
	AttachmentsCount int             `json:"attachments_count"`
	AlertID          string          `json:"alert_id,omitempty"`
	AlertQuery       json.RawMessage `json:"alert_query,omitempty"`
}

// CaseCreate is the request body for creating a case.
type CaseCreate struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Priority       string   `json:"priority,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	AssignedTo     string   `json:"assigned_to,omitempty"`
	AssignedToName string   `json:"assigned_to_name,omitempty"`
	CreatedBy      string   `json:"created_by"`
	CreatedByName  string   `json:"created_by_name"`
}

// CaseUpdate is the request body for partially updating a case.
// Nil fields are left untouched.
type CaseUpdate struct {
	Title          *string   `json:"title,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Status         *string   `json:"status,omitempty"`
	Priority       *string   `json:"priority,omitempty"`
	Tags           *[]string `json:"tags,omitempty"`
	AssignedTo     *string   `json:"assigned_to,omitempty"`
	AssignedToName *string   `json:"assigned_to_name,omitempty"`
}

// CaseFilter holds the supported list-cases predicates.
type CaseFilter struct {
	Status     string
	Priority   string
	AssignedTo string
	CreatedBy  string
	Search     string
	Limit      int
	Offset     int
}

// Comment belongs to exactly one case.
type Comment struct {
	ID         string     `json:"id"`
	CaseID     string     `json:"case_id"`
	Author     string     `json:"author"`
	AuthorName string     `json:"author_name"`
	Content    string     `json:"content"`
	Type       string     `json:"comment_type"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// CommentCreate is the request body for creating a comment.
type CommentCreate struct {
	Content    string `json:"content"`
	Author     string `json:"author"`
	AuthorName string `json:"author_name"`
	Type       string `json:"comment_type,omitempty"`
}

// FileAttachment records a file stored on disk for a case.
type FileAttachment struct {
	ID               string    `json:"id"`
	CaseID           string    `json:"case_id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type"`
	UploadedBy       string    `json:"uploaded_by"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// User is referenced by created_by/assigned_to on cases.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserCreate is the request body for creating a user.
type UserCreate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Alert is a monitoring alert that may be promoted into a case.
type Alert struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Severity        string          `json:"severity"`
	Status          string          `json:"status"`
	MonitorID       string          `json:"monitor_id"`
	TriggerID       string          `json:"trigger_id"`
	Query           json.RawMessage `json:"query,omitempty"`
	VisualizationID string          `json:"visualization_id,omitempty"`
	CaseID          string          `json:"case_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	AcknowledgedAt  *time.Time      `json:"acknowledged_at,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

// AlertCreate is the request body for creating an alert.
type AlertCreate struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Severity        string          `json:"severity"`
	MonitorID       string          `json:"monitor_id"`
	TriggerID       string          `json:"trigger_id"`
	Query           json.RawMessage `json:"query,omitempty"`
	VisualizationID string          `json:"visualization_id,omitempty"`
}

// CreateCaseFromAlert is the request body for promoting an alert into a case.
// Title and description default to values derived from the alert when omitted.
type CreateCaseFromAlert struct {
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	Priority      string   `json:"priority,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	AssignedTo    string   `json:"assigned_to,omitempty"`
	CreatedBy     string   `json:"created_by"`
	CreatedByName string   `json:"created_by_name"`
}

// Stats summarizes case counts by status and priority, and alert counts by
// severity and status.
type Stats struct {
	TotalCases         int            `json:"total_cases"`
	OpenCases          int            `json:"open_cases"`
	InProgressCases    int            `json:"in_progress_cases"`
	ClosedCases        int            `json:"closed_cases"`
	PriorityStats      map[string]int `json:"priority_stats"`
	TotalAlerts        int            `json:"total_alerts"`
	AlertSeverityStats map[string]int `json:"alert_severity_stats"`
	AlertStatusStats   map[string]int `json:"alert_status_stats"`
}

// PriorityForSeverity maps an alert severity onto a case priority for
// alert-to-case promotion. Critical alerts promote as high-priority cases.
func PriorityForSeverity(severity string) string {
	switch severity {
	case "low":
		return CasePriorityLow
	case "medium":
		return CasePriorityMedium
	case "high", "critical":
		return CasePriorityHigh
	default:
		return CasePriorityMedium
	}
}
