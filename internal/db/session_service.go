package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/balkashynov/studytrack/internal/models"
)

// StartSession opens a session for the project starting now.
// It does not check for an already active session; use ClockIn for that.
func (s *Store) StartSession(ctx context.Context, projectID int64, description *string) (*models.StudySession, error) {
	session, err := startSession(s.db.WithContext(ctx), projectID, description)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", classify(err))
	}
	return session, nil
}

func startSession(tx *gorm.DB, projectID int64, description *string) (*models.StudySession, error) {
	session := models.StudySession{
		ProjectID:   projectID,
		StartTime:   models.Now(),
		Description: description,
	}
	if err := tx.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// ClockIn starts a session for the project unless one is already active,
// in which case it fails with ErrConflict. The check and the insert run in
// one transaction, and the single active session index rejects a racing
// insert from another connection.
func (s *Store) ClockIn(ctx context.Context, projectID int64, description *string) (*models.StudySession, error) {
	var session *models.StudySession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active, err := activeSession(tx)
		if err != nil {
			return err
		}
		if active != nil {
			return fmt.Errorf("%w: session #%d for project #%d, clock out first",
				ErrConflict, active.ID, active.ProjectID)
		}

		session, err = startSession(tx, projectID, description)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to clock in: %w", classify(err))
	}
	return session, nil
}

// ClockOut ends the session now if it is still open and returns the rows
// affected. Zero means the session does not exist or was already closed.
func (s *Store) ClockOut(ctx context.Context, id int64) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.StudySession{}).
		Where("id = ? AND end_time IS NULL", id).
		Update("end_time", models.Now())
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clock out session #%d: %w", id, classify(res.Error))
	}
	return res.RowsAffected, nil
}

// AddManualSession inserts a closed session with caller supplied times.
func (s *Store) AddManualSession(ctx context.Context, in models.ManualSession) (*models.StudySession, error) {
	session := in.Session()
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to add session: %w", classify(err))
	}
	return &session, nil
}

// GetSession retrieves a session by ID
func (s *Store) GetSession(ctx context.Context, id int64) (*models.StudySession, error) {
	var session models.StudySession
	if err := s.db.WithContext(ctx).Take(&session, id).Error; err != nil {
		return nil, fmt.Errorf("session #%d: %w", id, classify(err))
	}
	return &session, nil
}

// ListSessionsForProject returns the project's sessions, newest first.
func (s *Store) ListSessionsForProject(ctx context.Context, projectID int64) ([]models.StudySession, error) {
	sessions := []models.StudySession{}
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("start_time DESC").Order("id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for project #%d: %w", projectID, classify(err))
	}
	return sessions, nil
}

// ListSessions returns every session, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]models.StudySession, error) {
	sessions := []models.StudySession{}
	err := s.db.WithContext(ctx).
		Order("start_time DESC").Order("id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", classify(err))
	}
	return sessions, nil
}

// UpdateSession replaces every field of a session and returns the rows affected.
func (s *Store) UpdateSession(ctx context.Context, id int64, in models.ManualSession) (int64, error) {
	session := in.Session()
	res := s.db.WithContext(ctx).
		Model(&models.StudySession{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"project_id":  session.ProjectID,
			"start_time":  session.StartTime,
			"end_time":    session.EndTime,
			"description": session.Description,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update session #%d: %w", id, classify(res.Error))
	}
	return res.RowsAffected, nil
}

// DeleteSession removes a session and returns the rows affected.
func (s *Store) DeleteSession(ctx context.Context, id int64) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.StudySession{}, id)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete session #%d: %w", id, classify(res.Error))
	}
	return res.RowsAffected, nil
}

// ActiveSession returns the currently active session, if any.
// No active session is not an error.
func (s *Store) ActiveSession(ctx context.Context) (*models.StudySession, error) {
	session, err := activeSession(s.db.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", classify(err))
	}
	return session, nil
}

// activeSession picks the most recent open session should several exist.
func activeSession(tx *gorm.DB) (*models.StudySession, error) {
	var session models.StudySession
	err := tx.Where("end_time IS NULL").Order("start_time DESC").Take(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}
