package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/apitrail/apitrail/internal/metrics"
	"github.com/apitrail/apitrail/internal/models"
	"github.com/apitrail/apitrail/internal/service"
)

// ApiHandler serves api definition endpoints.
type ApiHandler struct {
	repo     ApiRepository
	projects ProjectRepository
	runner   ApiRunner
	log      *logrus.Logger
}

// NewApiHandler creates an ApiHandler with the given dependencies.
func NewApiHandler(repo ApiRepository, projects ProjectRepository, runner ApiRunner, log *logrus.Logger) *ApiHandler {
	return &ApiHandler{repo: repo, projects: projects, runner: runner, log: log}
}

// Create handles POST /api/v1/apis.
func (h *ApiHandler) Create(c *gin.Context) {
	var req models.CreateApiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	userID := getUserID(c)
	if userID == 0 {
		return
	}

	apiID, err := h.repo.CreateApi(c.Request.Context(), userID, req)
	if err != nil {
		h.log.WithError(err).Error("creating api")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	metrics.VersionsCreated.WithLabelValues("created").Inc()

	h.log.WithFields(logrus.Fields{"action": "api.create", "user_id": userID, "api_id": apiID, "project_id": req.ProjectID}).Info("audit")

	c.JSON(http.StatusCreated, gin.H{"api_id": apiID})
}

// Get handles GET /api/v1/apis/:id.
func (h *ApiHandler) Get(c *gin.Context) {
	apiID, err := parsePathID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	userID := getUserID(c)
	if userID == 0 {
		return
	}

	detail, err := h.repo.GetApi(c.Request.Context(), apiID)
	if err != nil {
		h.respondApiError(c, err, "getting api")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "api.get", "user_id": userID, "api_id": apiID}).Info("audit")

	c.JSON(http.StatusOK, detail)
}

// Update handles PUT /api/v1/apis/:id.
func (h *ApiHandler) Update(c *gin.Context) {
	apiID, err := parsePathID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateApiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	userID := getUserID(c)
	if userID == 0 {
		return
	}

	versionID, err := h.repo.UpdateApi(c.Request.Context(), userID, apiID, req)
	if err != nil {
		if errors.Is(err, models.ErrNothingToUpdate) {
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, "nothing to update")

			return
		}

		h.respondApiError(c, err, "updating api")

		return
	}

	if versionID != 0 {
		metrics.VersionsCreated.WithLabelValues("updated").Inc()
	}

	h.log.WithFields(logrus.Fields{"action": "api.update", "user_id": userID, "api_id": apiID, "version_id": versionID}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"api_id": apiID, "version_id": versionID})
}

// Delete handles DELETE /api/v1/apis/:id.
func (h *ApiHandler) Delete(c *gin.Context) {
	apiID, err := parsePathID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	projectID, err := parsePathID(c.Query("project_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "project_id must be a positive integer")

		return
	}

	userID := getUserID(c)
	if userID == 0 {
		return
	}

	if err := h.repo.DeleteApi(c.Request.Context(), userID, apiID, projectID); err != nil {
		h.respondApiError(c, err, "deleting api")

		return
	}

	metrics.VersionsCreated.WithLabelValues("deleted").Inc()

	h.log.WithFields(logrus.Fields{"action": "api.delete", "user_id": userID, "api_id": apiID, "project_id": projectID}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Run handles POST /api/v1/apis/:id/run. Runs are never versioned.
func (h *ApiHandler) Run(c *gin.Context) {
	apiID, err := parsePathID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.RunApiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	userID := getUserID(c)
	if userID == 0 {
		return
	}

	detail, err := h.repo.GetApi(c.Request.Context(), apiID)
	if err != nil {
		h.respondApiError(c, err, "loading api for run")

		return
	}

	globals, err := h.projects.GlobalParams(c.Request.Context(), detail.ProjectID)
	if err != nil {
		h.log.WithError(err).Error("loading global params")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	var schema string
	if len(detail.Responses) > 0 {
		schema = detail.Responses[0].ResponseBody
	}

	result, err := h.runner.Run(c.Request.Context(), &service.RunInput{
		Method:         detail.Method,
		Path:           detail.URL,
		BaseURL:        detail.BaseURL,
		Params:         req.Params,
		BodyJSON:       req.BodyJSON,
		GlobalParams:   globals,
		ResponseSchema: schema,
	})
	if err != nil {
		if errors.Is(err, models.ErrNoResponseSchema) {
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, "api has no response schema for mock runs")

			return
		}

		h.log.WithError(err).Warn("api run failed")
		respondError(c, http.StatusBadGateway, ErrCodeUpstreamError, "api run failed")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "api.run", "user_id": userID, "api_id": apiID, "mode": result.Mode}).Info("audit")

	c.JSON(http.StatusOK, result)
}

// respondApiError maps store sentinel errors to HTTP responses.
func (h *ApiHandler) respondApiError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, models.ErrApiNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "api not found")
	case errors.Is(err, models.ErrApiDeleted):
		respondError(c, http.StatusGone, ErrCodeGone, "api has been deleted")
	default:
		h.log.WithError(err).Error(logMsg)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
