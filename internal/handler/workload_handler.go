package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/institute-portal-api/internal/service"
	"github.com/campushq/institute-portal-api/pkg/response"
)

// WorkloadHandler handles workload computation endpoints.
type WorkloadHandler struct {
	service *service.WorkloadService
}

// NewWorkloadHandler constructs a workload handler.
func NewWorkloadHandler(svc *service.WorkloadService) *WorkloadHandler {
	return &WorkloadHandler{service: svc}
}

// ForTeacher godoc
// @Summary Get a teacher's computed workload
// @Tags Workload
// @Produce json
// @Param code path string true "Institute code"
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/teachers/{id}/workload [get]
func (h *WorkloadHandler) ForTeacher(c *gin.Context) {
	workload, err := h.service.ForTeacher(c.Request.Context(), c.Param("code"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workload, nil)
}

// DailyBreakdown godoc
// @Summary Get a teacher's per-day load classification
// @Tags Workload
// @Produce json
// @Param code path string true "Institute code"
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/teachers/{id}/workload/daily [get]
func (h *WorkloadHandler) DailyBreakdown(c *gin.Context) {
	breakdown, err := h.service.DailyBreakdown(c.Request.Context(), c.Param("code"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, breakdown, nil)
}

// Report godoc
// @Summary Get the institute-wide workload report
// @Tags Workload
// @Produce json
// @Param code path string true "Institute code"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/workload-report [get]
func (h *WorkloadHandler) Report(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
