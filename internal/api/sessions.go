package api

import (
	"net/http"

	"github.com/balkashynov/studytrack/internal/models"
)

// startSession handles POST /api/sessions/start/{project_id}. The body
// is optional and may carry a description.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "project_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in models.ClockInInput
	if err := decodeJSON(w, r, &in, true); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.store.ClockIn(r.Context(), projectID, in.Description)
	if err != nil {
		s.storageError(w, r, "starting session", err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// clockOut handles POST /api/sessions/clockout/{id}.
func (s *Server) clockOut(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := s.store.ClockOut(r.Context(), id)
	if err != nil {
		s.storageError(w, r, "clocking out session", err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "Active session not found or already clocked out")
		return
	}

	session, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		s.storageError(w, r, "fetching clocked out session", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// addManualSession handles POST /api/sessions/manual.
func (s *Server) addManualSession(w http.ResponseWriter, r *http.Request) {
	var in models.ManualSession
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.store.AddManualSession(r.Context(), in)
	if err != nil {
		s.storageError(w, r, "adding manual session", err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// listSessions handles GET /api/sessions.
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.ListSessions(r.Context())
	if err != nil {
		s.storageError(w, r, "fetching all sessions", err)
		return
	}
	writeSessions(w, sessions)
}

// listSessionsForProject handles GET /api/sessions/project/{project_id}.
func (s *Server) listSessionsForProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "project_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessions, err := s.store.ListSessionsForProject(r.Context(), projectID)
	if err != nil {
		s.storageError(w, r, "fetching sessions for project", err)
		return
	}
	writeSessions(w, sessions)
}

func writeSessions(w http.ResponseWriter, sessions []models.StudySession) {
	if sessions == nil {
		sessions = []models.StudySession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// activeSession handles GET /api/sessions/active. It answers null when
// nothing is running.
func (s *Server) activeSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.ActiveSession(r.Context())
	if err != nil {
		s.storageError(w, r, "fetching active session", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// getSession handles GET /api/sessions/{id}.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		s.storageError(w, r, "fetching session", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// updateSession handles PUT /api/sessions/{id}. The response is the row
// as stored after the update.
func (s *Server) updateSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in models.ManualSession
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := s.store.UpdateSession(r.Context(), id, in)
	if err != nil {
		s.storageError(w, r, "updating session", err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	session, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		s.storageError(w, r, "fetching updated session", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// deleteSession handles DELETE /api/sessions/{id}.
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := s.store.DeleteSession(r.Context(), id)
	if err != nil {
		s.storageError(w, r, "deleting session", err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}
