package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/balkashynov/studytrack/internal/models"
)

// CreateProject inserts a project and returns it with its assigned id.
// A duplicate name fails with ErrConstraint.
func (s *Store) CreateProject(ctx context.Context, name string) (*models.Project, error) {
	project := models.Project{Name: name}
	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, fmt.Errorf("failed to create project: %w", classify(err))
	}
	return &project, nil
}

// GetProject retrieves a project by ID
func (s *Store) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).Take(&project, id).Error; err != nil {
		return nil, fmt.Errorf("project #%d: %w", id, classify(err))
	}
	return &project, nil
}

// ListProjects returns all projects ordered by name.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", classify(err))
	}
	return projects, nil
}

// ListProjectsWithSessions is ListProjects with each project's sessions loaded.
func (s *Store) ListProjectsWithSessions(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	err := s.db.WithContext(ctx).
		Preload("Sessions", func(tx *gorm.DB) *gorm.DB { return tx.Order("start_time DESC") }).
		Order("name ASC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", classify(err))
	}
	return projects, nil
}

// UpdateProject renames a project in place and returns the rows affected.
func (s *Store) UpdateProject(ctx context.Context, id int64, name string) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Update("name", name)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update project #%d: %w", id, classify(res.Error))
	}
	return res.RowsAffected, nil
}

// DeleteProject removes a project and returns the rows affected.
// Its sessions go with it through the foreign key cascade.
func (s *Store) DeleteProject(ctx context.Context, id int64) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.Project{}, id)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete project #%d: %w", id, classify(res.Error))
	}
	return res.RowsAffected, nil
}
