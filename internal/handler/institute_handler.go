package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/institute-portal-api/internal/service"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
	"github.com/campushq/institute-portal-api/pkg/response"
)

// InstituteHandler handles institute and registry endpoints.
type InstituteHandler struct {
	service *service.InstituteService
}

// NewInstituteHandler constructs an institute handler.
func NewInstituteHandler(svc *service.InstituteService) *InstituteHandler {
	return &InstituteHandler{service: svc}
}

// Register godoc
// @Summary Register a new institute
// @Tags Institutes
// @Accept json
// @Produce json
// @Param payload body service.RegisterInstituteRequest true "Institute payload"
// @Success 201 {object} response.Envelope
// @Router /institutes [post]
func (h *InstituteHandler) Register(c *gin.Context) {
	var req service.RegisterInstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid institute payload"))
		return
	}

	institute, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, institute.Summary())
}

// List godoc
// @Summary List registered institutes
// @Tags Institutes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /institutes [get]
func (h *InstituteHandler) List(c *gin.Context) {
	summaries, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

// Get godoc
// @Summary Get an institute summary
// @Tags Institutes
// @Produce json
// @Param code path string true "Institute code"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code} [get]
func (h *InstituteHandler) Get(c *gin.Context) {
	institute, err := h.service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, institute.Summary(), nil)
}

// Delete godoc
// @Summary Delete an institute
// @Tags Institutes
// @Param code path string true "Institute code"
// @Success 204
// @Router /institutes/{code} [delete]
func (h *InstituteHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetDepartments godoc
// @Summary List departments of an institute
// @Tags Entities
// @Produce json
// @Param code path string true "Institute code"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/departments [get]
func (h *InstituteHandler) GetDepartments(c *gin.Context) {
	institute, err := h.service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, institute.Departments, nil)
}

// AddDepartment godoc
// @Summary Create a department
// @Tags Entities
// @Accept json
// @Produce json
// @Param code path string true "Institute code"
// @Param payload body service.DepartmentRequest true "Department payload"
// @Success 201 {object} response.Envelope
// @Router /institutes/{code}/departments [post]
func (h *InstituteHandler) AddDepartment(c *gin.Context) {
	var req service.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload"))
		return
	}

	department, err := h.service.AddDepartment(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, department)
}

// UpdateDepartment godoc
// @Summary Update a department
// @Tags Entities
// @Accept json
// @Produce json
// @Param code path string true "Institute code"
// @Param id path string true "Department ID"
// @Param payload body service.DepartmentRequest true "Department payload"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/departments/{id} [put]
func (h *InstituteHandler) UpdateDepartment(c *gin.Context) {
	var req service.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload"))
		return
	}

	department, err := h.service.UpdateDepartment(c.Request.Context(), c.Param("code"), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, department, nil)
}

// DeleteDepartment godoc
// @Summary Delete a department
// @Tags Entities
// @Param code path string true "Institute code"
// @Param id path string true "Department ID"
// @Success 204
// @Router /institutes/{code}/departments/{id} [delete]
func (h *InstituteHandler) DeleteDepartment(c *gin.Context) {
	if err := h.service.DeleteDepartment(c.Request.Context(), c.Param("code"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetTeachers godoc
// @Summary List teachers of an institute
// @Tags Entities
// @Produce json
// @Param code path string true "Institute code"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/teachers [get]
func (h *InstituteHandler) GetTeachers(c *gin.Context) {
	institute, err := h.service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, institute.Teachers, nil)
}

// AddTeacher godoc
// @Summary Create a teacher
// @Tags Entities
// @Accept json
// @Produce json
// @Param code path string true "Institute code"
// @Param payload body service.TeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /institutes/{code}/teachers [post]
func (h *InstituteHandler) AddTeacher(c *gin.Context) {
	var req service.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload"))
		return
	}

	teacher, err := h.service.AddTeacher(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// UpdateTeacher godoc
// @Summary Update a teacher
// @Tags Entities
// @Accept json
// @Produce json
// @Param code path string true "Institute code"
// @Param id path string true "Teacher ID"
// @Param payload body service.TeacherRequest true "Teacher payload"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/teachers/{id} [put]
func (h *InstituteHandler) UpdateTeacher(c *gin.Context) {
	var req service.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload"))
		return
	}

	teacher, err := h.service.UpdateTeacher(c.Request.Context(), c.Param("code"), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// DeleteTeacher godoc
// @Summary Delete a teacher
// @Tags Entities
// @Param code path string true "Institute code"
// @Param id path string true "Teacher ID"
// @Success 204
// @Router /institutes/{code}/teachers/{id} [delete]
func (h *InstituteHandler) DeleteTeacher(c *gin.Context) {
	if err := h.service.DeleteTeacher(c.Request.Context(), c.Param("code"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetInfrastructure godoc
// @Summary Get buildings and rooms of an institute
// @Tags Entities
// @Produce json
// @Param code path string true "Institute code"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/infrastructure [get]
func (h *InstituteHandler) GetInfrastructure(c *gin.Context) {
	institute, err := h.service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, institute.Infrastructure, nil)
}

// AddBuilding godoc
// @Summary Create a building
// @Tags Entities
// @Accept json
// @Produce json
// @Param code path string true "Institute code"
// @Param payload body service.BuildingRequest true "Building payload"
// @Success 201 {object} response.Envelope
// @Router /institutes/{code}/buildings [post]
func (h *InstituteHandler) AddBuilding(c *gin.Context) {
	var req service.BuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid building payload"))
		return
	}

	building, err := h.service.AddBuilding(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, building)
}

// DeleteBuilding godoc
// @Summary Delete a building
// @Tags Entities
// @Param code path string true "Institute code"
// @Param id path string true "Building ID"
// @Success 204
// @Router /institutes/{code}/buildings/{id} [delete]
func (h *InstituteHandler) DeleteBuilding(c *gin.Context) {
	if err := h.service.DeleteBuilding(c.Request.Context(), c.Param("code"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddRoom godoc
// @Summary Create a room
// @Tags Entities
// @Accept json
// @Produce json
// @Param code path string true "Institute code"
// @Param payload body service.RoomRequest true "Room payload"
// @Success 201 {object} response.Envelope
// @Router /institutes/{code}/rooms [post]
func (h *InstituteHandler) AddRoom(c *gin.Context) {
	var req service.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload"))
		return
	}

	room, err := h.service.AddRoom(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// DeleteRoom godoc
// @Summary Delete a room
// @Tags Entities
// @Param code path string true "Institute code"
// @Param id path string true "Room ID"
// @Success 204
// @Router /institutes/{code}/rooms/{id} [delete]
func (h *InstituteHandler) DeleteRoom(c *gin.Context) {
	if err := h.service.DeleteRoom(c.Request.Context(), c.Param("code"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
