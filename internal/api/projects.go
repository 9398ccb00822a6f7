package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/apitrail/apitrail/internal/metrics"
	"github.com/apitrail/apitrail/internal/models"
)

// ProjectHandler serves version ledger and rollback endpoints.
type ProjectHandler struct {
	versions VersionRepository
	rollback RollbackRepository
	log      *logrus.Logger
}

// NewProjectHandler creates a ProjectHandler with the given dependencies.
func NewProjectHandler(versions VersionRepository, rollback RollbackRepository, log *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{versions: versions, rollback: rollback, log: log}
}

// History handles GET /api/v1/projects/:id/history.
func (h *ProjectHandler) History(c *gin.Context) {
	projectID, err := parsePathID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	userID := getUserID(c)
	if userID == 0 {
		return
	}

	entries, err := h.versions.ListProjectHistory(c.Request.Context(), projectID)
	if err != nil {
		h.log.WithError(err).Error("listing project history")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "project.history", "user_id": userID, "project_id": projectID, "count": len(entries)}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// GetVersion handles GET /api/v1/projects/:id/versions/:vid.
func (h *ProjectHandler) GetVersion(c *gin.Context) {
	projectID, err := parsePathID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	versionID, err := parsePathID(c.Param("vid"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if getUserID(c) == 0 {
		return
	}

	version, err := h.versions.GetVersion(c.Request.Context(), projectID, versionID)
	if err != nil {
		if errors.Is(err, models.ErrVersionNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "version not found")

			return
		}

		h.log.WithError(err).Error("getting version")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, version)
}

// Rollback handles POST /api/v1/projects/:id/rollback.
func (h *ProjectHandler) Rollback(c *gin.Context) {
	projectID, err := parsePathID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.RollbackRequest
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

	if err := h.rollback.Rollback(c.Request.Context(), projectID, req.VersionID); err != nil {
		switch {
		case errors.Is(err, models.ErrVersionNotFound):
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "version not found")
		case errors.Is(err, models.ErrVersionNotRollbackable):
			metrics.RollbacksTotal.WithLabelValues("rejected").Inc()
			respondError(c, http.StatusConflict, ErrCodeConflict, "this version cannot be rolled back")
		default:
			metrics.RollbacksTotal.WithLabelValues("error").Inc()
			h.log.WithError(err).Error("rolling back version")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		}

		return
	}

	metrics.RollbacksTotal.WithLabelValues("ok").Inc()

	h.log.WithFields(logrus.Fields{"action": "project.rollback", "user_id": userID, "project_id": projectID, "version_id": req.VersionID}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"rolled_back": true})
}
