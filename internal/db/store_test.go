package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/studytrack/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{Path: filepath.Join(t.TempDir(), "studytrack.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustProject(t *testing.T, s *Store, name string) *models.Project {
	t.Helper()
	p, err := s.CreateProject(context.Background(), name)
	require.NoError(t, err)
	return p
}

func ts(t *testing.T, s string) models.Timestamp {
	t.Helper()
	parsed, err := models.ParseTimestamp(s)
	require.NoError(t, err)
	return parsed
}

func strPtr(s string) *string { return &s }

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "studytrack.db")

	first, err := Open(Options{Path: path})
	require.NoError(t, err)
	_, err = first.CreateProject(context.Background(), "Algorithms")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(Options{Path: path})
	require.NoError(t, err)
	defer second.Close()

	projects, err := second.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Algorithms", projects[0].Name)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Options{})
	assert.Error(t, err)
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("assigns an id", func(t *testing.T) {
		p, err := s.CreateProject(ctx, "Algorithms")
		require.NoError(t, err)
		assert.Positive(t, p.ID)
		assert.Equal(t, "Algorithms", p.Name)
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		_, err := s.CreateProject(ctx, "Algorithms")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConstraint)
	})
}

func TestGetProjectNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetProject(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProjectsOrderedByName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	empty, err := s.ListProjects(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, name := range []string{"Physics", "Algorithms", "Linear Algebra"} {
		mustProject(t, s, name)
	}

	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Algorithms", "Linear Algebra", "Physics"}, names)
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Algorithms")

	n, err := s.UpdateProject(ctx, p.ID, "Algorithms II")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algorithms II", got.Name)

	n, err = s.UpdateProject(ctx, p.ID+100, "Nothing")
	require.NoError(t, err)
	assert.Zero(t, n)

	mustProject(t, s, "Physics")
	_, err = s.UpdateProject(ctx, p.ID, "Physics")
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestDeleteProjectCascadesToSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	doomed := mustProject(t, s, "Algorithms")
	kept := mustProject(t, s, "Physics")

	_, err := s.AddManualSession(ctx, models.ManualSession{
		ProjectID: doomed.ID,
		StartTime: ts(t, "2024-01-01T10:00:00Z"),
		EndTime:   ts(t, "2024-01-01T11:00:00Z"),
	})
	require.NoError(t, err)
	_, err = s.ClockIn(ctx, doomed.ID, nil)
	require.NoError(t, err)
	other, err := s.AddManualSession(ctx, models.ManualSession{
		ProjectID: kept.ID,
		StartTime: ts(t, "2024-01-02T10:00:00Z"),
		EndTime:   ts(t, "2024-01-02T11:00:00Z"),
	})
	require.NoError(t, err)

	n, err := s.DeleteProject(ctx, doomed.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.GetProject(ctx, doomed.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	sessions, err := s.ListSessionsForProject(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	all, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, other.ID, all[0].ID)

	active, err := s.ActiveSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	n, err = s.DeleteProject(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClockIn(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Algorithms")

	active, err := s.ActiveSession(ctx)
	require.NoError(t, err)
	require.Nil(t, active)

	before := time.Now().UTC()
	first, err := s.ClockIn(ctx, p.ID, strPtr("chapter 3"))
	require.NoError(t, err)
	assert.Positive(t, first.ID)
	assert.Nil(t, first.EndTime)
	assert.True(t, first.Active())
	assert.False(t, first.StartTime.Before(before.Add(-time.Second)))

	t.Run("refuses a second active session", func(t *testing.T) {
		_, err := s.ClockIn(ctx, p.ID, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConflict)

		still, err := s.ActiveSession(ctx)
		require.NoError(t, err)
		require.NotNil(t, still)
		assert.Equal(t, first.ID, still.ID)
		assert.True(t, first.StartTime.Equal(still.StartTime))
		assert.Nil(t, still.EndTime)
		require.NotNil(t, still.Description)
		assert.Equal(t, "chapter 3", *still.Description)
	})

	t.Run("index rejects an unchecked start", func(t *testing.T) {
		_, err := s.StartSession(ctx, p.ID, nil)
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestClockInUnknownProject(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ClockIn(context.Background(), 999, nil)
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestClockOut(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Algorithms")

	session, err := s.ClockIn(ctx, p.ID, nil)
	require.NoError(t, err)

	n, err := s.ClockOut(ctx, session.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	closed, err := s.GetSession(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.EndTime)
	assert.False(t, closed.EndTime.Before(closed.StartTime.Time))

	n, err = s.ClockOut(ctx, session.ID)
	require.NoError(t, err)
	assert.Zero(t, n, "second clock out must not touch the row")

	again, err := s.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, closed.EndTime.Equal(*again.EndTime))

	n, err = s.ClockOut(ctx, session.ID+100)
	require.NoError(t, err)
	assert.Zero(t, n)

	active, err := s.ActiveSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = s.ClockIn(ctx, p.ID, nil)
	assert.NoError(t, err, "clocking in again after clock out")
}

func TestManualSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Algorithms")

	tests := []struct {
		name string
		in   models.ManualSession
	}{
		{
			name: "whole seconds",
			in: models.ManualSession{
				ProjectID:   p.ID,
				StartTime:   ts(t, "2024-01-01T10:00:00Z"),
				EndTime:     ts(t, "2024-01-01T11:30:00Z"),
				Description: strPtr("graphs"),
			},
		},
		{
			name: "offset and fractional seconds",
			in: models.ManualSession{
				ProjectID: p.ID,
				StartTime: ts(t, "2024-03-10T09:15:00.123456789+02:00"),
				EndTime:   ts(t, "2024-03-10T10:00:00.5+02:00"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := s.AddManualSession(ctx, tt.in)
			require.NoError(t, err)

			got, err := s.GetSession(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.in.ProjectID, got.ProjectID)
			assert.True(t, tt.in.StartTime.Equal(got.StartTime), "start %s != %s", tt.in.StartTime, got.StartTime)
			require.NotNil(t, got.EndTime)
			assert.True(t, tt.in.EndTime.Equal(*got.EndTime), "end %s != %s", tt.in.EndTime, got.EndTime)
			assert.Equal(t, tt.in.Description, got.Description)
			assert.Equal(t, time.UTC, got.StartTime.Location())
		})
	}
}

func TestManualSessionDoesNotCountAsActive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Algorithms")

	_, err := s.ClockIn(ctx, p.ID, nil)
	require.NoError(t, err)

	_, err = s.AddManualSession(ctx, models.ManualSession{
		ProjectID: p.ID,
		StartTime: ts(t, "2024-01-01T10:00:00Z"),
		EndTime:   ts(t, "2024-01-01T11:00:00Z"),
	})
	assert.NoError(t, err)
}

func TestListSessionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a := mustProject(t, s, "Algorithms")
	b := mustProject(t, s, "Physics")

	for _, in := range []models.ManualSession{
		{ProjectID: a.ID, StartTime: ts(t, "2024-01-01T10:00:00Z"), EndTime: ts(t, "2024-01-01T11:00:00Z")},
		{ProjectID: b.ID, StartTime: ts(t, "2024-01-03T10:00:00Z"), EndTime: ts(t, "2024-01-03T11:00:00Z")},
		{ProjectID: a.ID, StartTime: ts(t, "2024-01-02T10:00:00.5Z"), EndTime: ts(t, "2024-01-02T11:00:00Z")},
		{ProjectID: a.ID, StartTime: ts(t, "2024-01-02T10:00:00Z"), EndTime: ts(t, "2024-01-02T10:30:00Z")},
	} {
		_, err := s.AddManualSession(ctx, in)
		require.NoError(t, err)
	}

	all, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].StartTime.After(all[i-1].StartTime.Time), "sessions out of order at %d", i)
	}

	forA, err := s.ListSessionsForProject(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, forA, 3)
	assert.True(t, forA[0].StartTime.Equal(ts(t, "2024-01-02T10:00:00.5Z")))
	assert.True(t, forA[2].StartTime.Equal(ts(t, "2024-01-01T10:00:00Z")))
	for _, session := range forA {
		assert.Equal(t, a.ID, session.ProjectID)
	}
}

func TestUpdateSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a := mustProject(t, s, "Algorithms")
	b := mustProject(t, s, "Physics")

	created, err := s.AddManualSession(ctx, models.ManualSession{
		ProjectID:   a.ID,
		StartTime:   ts(t, "2024-01-01T10:00:00Z"),
		EndTime:     ts(t, "2024-01-01T11:00:00Z"),
		Description: strPtr("old"),
	})
	require.NoError(t, err)

	update := models.ManualSession{
		ProjectID: b.ID,
		StartTime: ts(t, "2024-02-01T08:00:00Z"),
		EndTime:   ts(t, "2024-02-01T09:45:00Z"),
	}
	n, err := s.UpdateSession(ctx, created.ID, update)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := s.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ProjectID)
	assert.True(t, update.StartTime.Equal(got.StartTime))
	assert.True(t, update.EndTime.Equal(*got.EndTime))
	assert.Nil(t, got.Description)

	n, err = s.UpdateSession(ctx, created.ID+100, update)
	require.NoError(t, err)
	assert.Zero(t, n)

	update.ProjectID = 999
	_, err = s.UpdateSession(ctx, created.ID, update)
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestUpdateSessionClosesActiveSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Algorithms")

	active, err := s.ClockIn(ctx, p.ID, nil)
	require.NoError(t, err)

	_, err = s.UpdateSession(ctx, active.ID, models.ManualSession{
		ProjectID: p.ID,
		StartTime: active.StartTime,
		EndTime:   models.NewTimestamp(active.StartTime.Add(time.Minute)),
	})
	require.NoError(t, err)

	got, err := s.ActiveSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Algorithms")

	session, err := s.ClockIn(ctx, p.ID, nil)
	require.NoError(t, err)

	n, err := s.DeleteSession(ctx, session.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err = s.DeleteSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.GetProject(ctx, p.ID)
	assert.NoError(t, err, "deleting a session leaves its project")
}

func TestActiveSessionPicksMostRecent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Algorithms")

	// Simulate a database from before the single active session index.
	require.NoError(t, s.db.Exec("DROP INDEX " + activeSessionIndexName).Error)
	require.NoError(t, s.db.Exec(
		"INSERT INTO study_sessions (project_id, start_time) VALUES (?, ?), (?, ?)",
		p.ID, "2024-01-01T10:00:00.000000000Z",
		p.ID, "2024-01-02T10:00:00.000000000Z",
	).Error)

	active, err := s.ActiveSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.True(t, active.StartTime.Equal(ts(t, "2024-01-02T10:00:00Z")))

	_, err = s.ClockIn(ctx, p.ID, nil)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestTimestampsStoredAsText(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Algorithms")

	created, err := s.AddManualSession(ctx, models.ManualSession{
		ProjectID: p.ID,
		StartTime: ts(t, "2024-01-01T12:00:00+02:00"),
		EndTime:   ts(t, "2024-01-01T11:30:00Z"),
	})
	require.NoError(t, err)

	var start, end string
	row := s.db.Raw("SELECT start_time, end_time FROM study_sessions WHERE id = ?", created.ID).Row()
	require.NoError(t, row.Scan(&start, &end))
	assert.Equal(t, "2024-01-01T10:00:00.000000000Z", start)
	assert.Equal(t, "2024-01-01T11:30:00.000000000Z", end)
}

func TestReadsOffsetTimestamps(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Algorithms")

	require.NoError(t, s.db.Exec(
		"INSERT INTO study_sessions (project_id, start_time, end_time) VALUES (?, ?, ?)",
		p.ID, "2024-01-01T10:00:00.123+00:00", "2024-01-01T12:30:00+01:00",
	).Error)

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].StartTime.Equal(ts(t, "2024-01-01T10:00:00.123Z")))
	assert.True(t, sessions[0].EndTime.Equal(ts(t, "2024-01-01T11:30:00Z")))
}

func TestCorruptTimestampAbortsOnlyThatRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Algorithms")

	require.NoError(t, s.db.Exec(
		"INSERT INTO study_sessions (id, project_id, start_time, end_time) VALUES (?, ?, ?, ?)",
		7, p.ID, "yesterday-ish", "2024-01-01T11:00:00Z",
	).Error)

	_, err := s.GetSession(ctx, 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptTimestamp)

	_, err = s.ListSessions(ctx)
	assert.ErrorIs(t, err, ErrCorruptTimestamp)

	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestListProjectsWithSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a := mustProject(t, s, "Algorithms")
	mustProject(t, s, "Physics")

	_, err := s.AddManualSession(ctx, models.ManualSession{
		ProjectID: a.ID,
		StartTime: ts(t, "2024-01-01T10:00:00Z"),
		EndTime:   ts(t, "2024-01-01T11:00:00Z"),
	})
	require.NoError(t, err)

	projects, err := s.ListProjectsWithSessions(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Len(t, projects[0].Sessions, 1)
	assert.Empty(t, projects[1].Sessions)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestMemoryStore(t *testing.T) {
	s, err := Open(Options{Path: MemoryPath})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.CreateProject(context.Background(), "Algorithms")
	require.NoError(t, err)
	projects, err := s.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}
