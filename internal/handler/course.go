package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/coursehub/internal/model"
	"github.com/sakif/coursehub/internal/service"
)

// CourseHandler serves /api/courses.
type CourseHandler struct {
	courses *service.CourseService
	logger  *slog.Logger
}

func NewCourseHandler(courses *service.CourseService, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{
		courses: courses,
		logger:  logger,
	}
}

// courseRequest is the JSON body of POST and PUT. A "userId" sent by the
// client is not decoded at all: the owner always comes from authentication.
type courseRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	EstimatedTime   *string `json:"estimatedTime"`
	MaterialsNeeded *string `json:"materialsNeeded"`
}

func (req courseRequest) input() service.CourseInput {
	return service.CourseInput{
		Title:           req.Title,
		Description:     req.Description,
		EstimatedTime:   req.EstimatedTime,
		MaterialsNeeded: req.MaterialsNeeded,
	}
}

func courseLocation(id string) string {
	return "/courses/" + id
}

// HandleList returns every course with its owner.
//
// HTTP: GET /api/courses
//
// RESPONSE FORMAT:
//
//	[
//	  {"id":"...","title":"...","description":"...","estimatedTime":null,
//	   "materialsNeeded":null,"owner":{"id":"...","firstName":"Joe","lastName":"Smith"}},
//	  ...
//	]
func (h *CourseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

// HandleGet returns one course, including its userId.
//
// HTTP: GET /api/courses/{id}
func (h *CourseHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	course, err := h.courses.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// HandleCreate creates a course owned by the caller.
//
// HTTP: POST /api/courses
// Auth: required
//
// 201 with Location /courses/{id} and no body.
func (h *CourseHandler) HandleCreate(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req courseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMalformed(w, h.logger, err)
		return
	}

	course, err := h.courses.Create(r.Context(), user, req.input())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeEmpty(w, http.StatusCreated, courseLocation(course.ID))
}

// HandleUpdate overwrites a course the caller owns.
//
// HTTP: PUT /api/courses/{id}
// Auth: required, caller must own the course
//
// 204 with Location /courses/{id}. A missing course (404) or someone else's
// course (403) is reported even when the body can't be decoded.
func (h *CourseHandler) HandleUpdate(w http.ResponseWriter, r *http.Request, user *model.User) {
	id := chi.URLParam(r, "id")

	var req courseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		if ownErr := h.courses.CheckOwner(r.Context(), user, id); ownErr != nil {
			writeError(w, r, h.logger, ownErr)
			return
		}
		writeMalformed(w, h.logger, err)
		return
	}

	if _, err := h.courses.Update(r.Context(), user, id, req.input()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeEmpty(w, http.StatusNoContent, courseLocation(id))
}

// HandleDelete removes a course the caller owns.
//
// HTTP: DELETE /api/courses/{id}
// Auth: required, caller must own the course
func (h *CourseHandler) HandleDelete(w http.ResponseWriter, r *http.Request, user *model.User) {
	if err := h.courses.Delete(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeEmpty(w, http.StatusNoContent, "")
}
