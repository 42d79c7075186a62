package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid marks input that failed validation.
var ErrInvalid = errors.New("invalid input")

// Project is something time is spent on
type Project struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;unique" json:"name"`

	// Relationships
	Sessions []StudySession `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName pins the table name used by the schema.
func (Project) TableName() string {
	return "projects"
}

// ProjectInput is the request body for creating or renaming a project.
type ProjectInput struct {
	Name string `json:"name"`
}

// Normalize trims the name and rejects an empty one.
func (in ProjectInput) Normalize() (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", fmt.Errorf("%w: project name is required", ErrInvalid)
	}
	return name, nil
}
