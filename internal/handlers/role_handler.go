package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"financeiro/internal/dto"
	"financeiro/internal/services"
)

// RoleHandler handles role-related requests
type RoleHandler struct {
	roleService  services.RoleServicer
	auditService services.AuditServicer
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService services.RoleServicer, auditService services.AuditServicer) *RoleHandler {
	return &RoleHandler{roleService: roleService, auditService: auditService}
}

// FindAll returns every role
// @Summary     List roles
// @Tags        roles
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  dto.RoleDTO "List of roles"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /roles [get]
func (h *RoleHandler) FindAll(c *gin.Context) {
	roles, err := h.roleService.FindAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// FindByID returns a single role
// @Summary     Get role by ID
// @Tags        roles
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Role ID"
// @Success     200 {object} dto.RoleDTO "Role"
// @Failure     404 {object} ErrorResponse "Role not found"
// @Router      /roles/{id} [get]
func (h *RoleHandler) FindByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	role, err := h.roleService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// Insert creates a role
// @Summary     Create a role
// @Tags        roles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body dto.RoleDTO true "Role details"
// @Success     201 {object} dto.RoleDTO "Role created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /roles [post]
func (h *RoleHandler) Insert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req dto.RoleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	role, err := h.roleService.Insert(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_ROLE", "role", role.ID, c.ClientIP(),
		map[string]interface{}{"authority": role.Authority})

	c.Header("Location", fmt.Sprintf("/roles/%d", role.ID))
	c.JSON(http.StatusCreated, role)
}

// Update changes a role's authority
// @Summary     Update a role
// @Tags        roles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int         true "Role ID"
// @Param       request body dto.RoleDTO true "Role details"
// @Success     200 {object} dto.RoleDTO "Role updated"
// @Failure     404 {object} ErrorResponse "Role not found"
// @Router      /roles/{id} [put]
func (h *RoleHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req dto.RoleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	role, err := h.roleService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_ROLE", "role", id, c.ClientIP(),
		map[string]interface{}{"authority": role.Authority})

	c.JSON(http.StatusOK, role)
}

// Delete removes a role
// @Summary     Delete a role
// @Tags        roles
// @Security    BearerAuth
// @Param       id path int true "Role ID"
// @Success     204 "Role deleted"
// @Failure     400 {object} ErrorResponse "Role in use"
// @Failure     404 {object} ErrorResponse "Role not found"
// @Router      /roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.roleService.Delete(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_ROLE", "role", id, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}
