package api

import (
	"net/http"

	"github.com/balkashynov/studytrack/internal/models"
)

// createProject handles POST /api/projects.
func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var in models.ProjectInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name, err := in.Normalize()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := s.store.CreateProject(r.Context(), name)
	if err != nil {
		s.storageError(w, r, "creating project", err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// listProjects handles GET /api/projects.
func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		s.storageError(w, r, "fetching projects", err)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

// getProject handles GET /api/projects/{id}.
func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := s.store.GetProject(r.Context(), id)
	if err != nil {
		s.storageError(w, r, "fetching project", err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// updateProject handles PUT /api/projects/{id}. The response is the row
// as stored after the rename.
func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in models.ProjectInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name, err := in.Normalize()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := s.store.UpdateProject(r.Context(), id, name)
	if err != nil {
		s.storageError(w, r, "updating project", err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	project, err := s.store.GetProject(r.Context(), id)
	if err != nil {
		s.storageError(w, r, "fetching updated project", err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// deleteProject handles DELETE /api/projects/{id}.
func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := s.store.DeleteProject(r.Context(), id)
	if err != nil {
		s.storageError(w, r, "deleting project", err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}
