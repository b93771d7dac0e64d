package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/institute-portal-api/internal/models"
	"github.com/campushq/institute-portal-api/internal/service"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
	"github.com/campushq/institute-portal-api/pkg/response"
)

// maxImportBytes caps CSV import payloads at 4 MiB.
const maxImportBytes = 4 << 20

// ExportHandler handles synchronous renders, async export jobs and imports.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Render godoc
// @Summary Render a dataset synchronously
// @Tags Exports
// @Produce json
// @Param code path string true "Institute code"
// @Param dataset query string true "Dataset (timetables, conflicts, workload, bookings)"
// @Param format query string true "Format (csv, json, pdf)"
// @Success 200 {file} file
// @Router /institutes/{code}/export [get]
func (h *ExportHandler) Render(c *gin.Context) {
	content, contentType, filename, err := h.service.Render(c.Request.Context(), c.Param("code"), c.Query("dataset"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, content)
}

// Enqueue godoc
// @Summary Queue an asynchronous export job
// @Tags Exports
// @Accept json
// @Produce json
// @Param code path string true "Institute code"
// @Param payload body models.ExportRequest true "Export request"
// @Success 202 {object} response.Envelope
// @Router /institutes/{code}/exports [post]
func (h *ExportHandler) Enqueue(c *gin.Context) {
	var req models.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload"))
		return
	}

	job, err := h.service.Enqueue(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// GetJob godoc
// @Summary Get the state of an export job
// @Tags Exports
// @Produce json
// @Param code path string true "Institute code"
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/exports/{id} [get]
func (h *ExportHandler) GetJob(c *gin.Context) {
	job, err := h.service.GetJob(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a finished export using its signed token
// @Tags Exports
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, contentType, filename, err := h.service.ResolveDownload(c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}

// ImportTimetables godoc
// @Summary Rebuild timetable cells from a flattened CSV
// @Tags Exports
// @Accept text/csv
// @Produce json
// @Param code path string true "Institute code"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/imports/timetables [post]
func (h *ExportHandler) ImportTimetables(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read csv payload"))
		return
	}

	imported, err := h.service.ImportTimetables(c.Request.Context(), c.Param("code"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"imported": imported}, nil)
}
