package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bcit-connector/internal/application"
	"github.com/oksasatya/bcit-connector/internal/interface/middleware"
	"github.com/oksasatya/bcit-connector/pkg/response"
	"github.com/oksasatya/bcit-connector/pkg/validation"
)

type ProfileHandler struct {
	Svc    *application.ProfileService
	Github *application.GithubClient
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.ProfileService, gh *application.GithubClient, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Github: gh, Logger: logger}
}

type profileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" binding:"notblank"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills" binding:"notblank"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

var profileMessages = validation.Messages{
	"status": "Status is required",
	"skills": "Skills is required",
}

type experienceRequest struct {
	Title       string `json:"title" binding:"notblank"`
	Company     string `json:"company" binding:"notblank"`
	Location    string `json:"location"`
	From        string `json:"from" binding:"required,date"`
	To          string `json:"to" binding:"omitempty,date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

var experienceMessages = validation.Messages{
	"title":         "Title is required",
	"company":       "Company is required",
	"from.required": "From date is required",
	"from.date":     "From date must be a valid date",
	"to":            "To date must be a valid date",
}

type educationRequest struct {
	School       string `json:"school" binding:"notblank"`
	Degree       string `json:"degree" binding:"notblank"`
	FieldOfStudy string `json:"fieldofstudy" binding:"notblank"`
	From         string `json:"from" binding:"required,date"`
	To           string `json:"to" binding:"omitempty,date"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

var educationMessages = validation.Messages{
	"school":        "School is required",
	"degree":        "Degree is required",
	"fieldofstudy":  "Field of study is required",
	"from.required": "From date is required",
	"from.date":     "From date must be a valid date",
	"to":            "To date must be a valid date",
}

// dates parses already validated from/to values. A current entry has no end date.
func dates(from, to string, current bool) (time.Time, *time.Time) {
	f, _ := validation.ParseDate(from)
	if current || strings.TrimSpace(to) == "" {
		return f, nil
	}
	t, err := validation.ParseDate(to)
	if err != nil {
		return f, nil
	}
	return f, &t
}

// notFound writes the 404 for service level not-found errors and reports
// whether err was one of them.
func notFound(c *gin.Context, err error) bool {
	var msg string
	switch {
	case errors.Is(err, application.ErrProfileNotFound):
		msg = "Profile not found."
	case errors.Is(err, application.ErrUserNotFound):
		msg = "User not found."
	case errors.Is(err, application.ErrExperienceNotFound):
		msg = "Experience not found."
	case errors.Is(err, application.ErrEducationNotFound):
		msg = "Education not found."
	case errors.Is(err, application.ErrGithubNotFound):
		msg = "No Github profile found"
	default:
		return false
	}
	response.Message(c, http.StatusNotFound, msg)
	return true
}

// Me handles GET /api/profile/me.
func (h *ProfileHandler) Me(c *gin.Context) {
	p, err := h.Svc.Me(c.Request.Context(), middleware.UserID(c))
	if errors.Is(err, application.ErrProfileNotFound) {
		response.Message(c, http.StatusNotFound, "There is no profile for this user.")
		return
	}
	if err != nil {
		serverError(c, h.Logger, "get own profile failed", err)
		return
	}
	response.OK(c, p)
}

// Upsert handles POST /api/profile.
func (h *ProfileHandler) Upsert(c *gin.Context) {
	var req profileRequest
	if err := validation.Bind(c, &req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, profileMessages)...)
		return
	}
	p, err := h.Svc.Upsert(c.Request.Context(), middleware.UserID(c), application.ProfileInput{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		GithubUsername: req.GithubUsername,
		Skills:         req.Skills,
		YouTube:        req.YouTube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		LinkedIn:       req.LinkedIn,
		Instagram:      req.Instagram,
	})
	if notFound(c, err) {
		return
	}
	if err != nil {
		serverError(c, h.Logger, "upsert profile failed", err)
		return
	}
	response.OK(c, p)
}

// List handles GET /api/profile.
func (h *ProfileHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		serverError(c, h.Logger, "list profiles failed", err)
		return
	}
	response.OK(c, list)
}

// ByUser handles GET /api/profile/user/:user_id.
func (h *ProfileHandler) ByUser(c *gin.Context) {
	p, err := h.Svc.ByUserID(c.Request.Context(), c.Param("user_id"))
	if notFound(c, err) {
		return
	}
	if err != nil {
		serverError(c, h.Logger, "get profile failed", err)
		return
	}
	response.OK(c, p)
}

// Search handles GET /api/profile/search?q=&size=.
func (h *ProfileHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Errors(c, http.StatusBadRequest, response.ErrorItem{Msg: "Search query is required", Param: "q", Location: "query"})
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	if size <= 0 || size > 50 {
		size = 10
	}
	docs, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		serverError(c, h.Logger, "profile search failed", err)
		return
	}
	response.OK(c, docs)
}

// Delete handles DELETE /api/profile: the profile and the account go together.
func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteAccount(c.Request.Context(), middleware.UserID(c)); err != nil {
		serverError(c, h.Logger, "delete account failed", err)
		return
	}
	response.Message(c, http.StatusOK, "User deleted.")
}

// AddExperience handles PUT /api/profile/experience.
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	var req experienceRequest
	if err := validation.Bind(c, &req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, experienceMessages)...)
		return
	}
	from, to := dates(req.From, req.To, req.Current)
	p, err := h.Svc.AddExperience(c.Request.Context(), middleware.UserID(c), application.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: req.Description,
	})
	if notFound(c, err) {
		return
	}
	if err != nil {
		serverError(c, h.Logger, "add experience failed", err)
		return
	}
	response.OK(c, p)
}

// RemoveExperience handles DELETE /api/profile/experience/:exp_id.
func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	p, err := h.Svc.RemoveExperience(c.Request.Context(), middleware.UserID(c), c.Param("exp_id"))
	if notFound(c, err) {
		return
	}
	if err != nil {
		serverError(c, h.Logger, "remove experience failed", err)
		return
	}
	response.OK(c, p)
}

// AddEducation handles PUT /api/profile/education.
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	var req educationRequest
	if err := validation.Bind(c, &req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, educationMessages)...)
		return
	}
	from, to := dates(req.From, req.To, req.Current)
	p, err := h.Svc.AddEducation(c.Request.Context(), middleware.UserID(c), application.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  req.Description,
	})
	if notFound(c, err) {
		return
	}
	if err != nil {
		serverError(c, h.Logger, "add education failed", err)
		return
	}
	response.OK(c, p)
}

// RemoveEducation handles DELETE /api/profile/education/:edu_id.
func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	p, err := h.Svc.RemoveEducation(c.Request.Context(), middleware.UserID(c), c.Param("edu_id"))
	if notFound(c, err) {
		return
	}
	if err != nil {
		serverError(c, h.Logger, "remove education failed", err)
		return
	}
	response.OK(c, p)
}

// GithubRepos handles GET /api/profile/github/:username.
func (h *ProfileHandler) GithubRepos(c *gin.Context) {
	repos, err := h.Github.Repos(c.Request.Context(), c.Param("username"))
	if notFound(c, err) {
		return
	}
	if err != nil {
		serverError(c, h.Logger, "github lookup failed", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", repos)
}
