package model

import (
	"strings"
	"time"

	"github.com/sakif/coursehub/internal/apperror"
)

// Course is a course record as stored.
//
// EstimatedTime and MaterialsNeeded are optional, so they are pointers:
// nil is stored as NULL and rendered as JSON null, which the client treats
// differently from an empty string.
type Course struct {
	ID              string    `json:"id"              db:"id"`
	Title           string    `json:"title"           db:"title"`
	Description     string    `json:"description"     db:"description"`
	EstimatedTime   *string   `json:"estimatedTime"   db:"estimated_time"`
	MaterialsNeeded *string   `json:"materialsNeeded" db:"materials_needed"`
	UserID          string    `json:"userId"          db:"user_id"` // owner
	CreatedAt       time.Time `json:"createdAt"       db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt"       db:"updated_at"`
}

// CourseDetail is the projection served by the read endpoints: the course
// fields without timestamps, plus the owner's public name.
//
// UserID is left empty by the list query, so omitempty drops it from list
// responses while the single-course response carries it.
type CourseDetail struct {
	ID              string  `json:"id"                db:"id"`
	Title           string  `json:"title"             db:"title"`
	Description     string  `json:"description"       db:"description"`
	EstimatedTime   *string `json:"estimatedTime"     db:"estimated_time"`
	MaterialsNeeded *string `json:"materialsNeeded"   db:"materials_needed"`
	UserID          string  `json:"userId,omitempty"  db:"user_id"`
	Owner           Owner   `json:"owner"             db:"owner"`
}

// Messages for required course fields. The client shows them verbatim.
const (
	MsgTitleRequired       = `Please provide a value for "title"`
	MsgDescriptionRequired = `Please provide a value for "description"`
)

// Validate applies the record-level rules the store enforces before any
// write. Every failure is reported, not just the first.
func (c *Course) Validate() error {
	var v apperror.Violations
	v.Check(strings.TrimSpace(c.Title) != "", MsgTitleRequired)
	v.Check(strings.TrimSpace(c.Description) != "", MsgDescriptionRequired)
	return v.Err()
}
