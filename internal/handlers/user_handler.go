package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"financeiro/internal/dto"
	"financeiro/internal/pagination"
	"financeiro/internal/services"
)

// UserHandler handles user administration requests
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// FindAll returns a page of users
// @Summary     List users
// @Description Returns users page by page. Sort by id, firstName, lastName or email.
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       page query int    false "Zero-based page number"
// @Param       size query int    false "Page size (max 100)"
// @Param       sort query string false "Sort property and direction, e.g. firstName,asc"
// @Success     200 {object} pagination.Page[dto.UserDTO] "Page of users"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /users [get]
func (h *UserHandler) FindAll(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	users, err := h.userService.FindAll(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// FindByID returns a single user
// @Summary     Get user by ID
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     200 {object} dto.UserDTO "User"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [get]
func (h *UserHandler) FindByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Insert creates a user
// @Summary     Create a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body dto.UserInsertDTO true "User details"
// @Success     201 {object} dto.UserDTO "User created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "Email already exists"
// @Router      /users [post]
func (h *UserHandler) Insert(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req dto.UserInsertDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.Insert(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actorID, "CREATE_USER", "user", user.ID, c.ClientIP(),
		map[string]interface{}{"email": user.Email})

	c.Header("Location", fmt.Sprintf("/users/%d", user.ID))
	c.JSON(http.StatusCreated, user)
}

// Update changes a user's profile, password or roles
// @Summary     Update a user
// @Description An empty password keeps the current one.
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "User ID"
// @Param       request body dto.UserUpdateDTO true "User details"
// @Success     200 {object} dto.UserDTO "User updated"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req dto.UserUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{"email": user.Email}
	if req.Password != "" {
		changes["password_changed"] = true
	}
	h.auditService.Log(c.Request.Context(), actorID, "UPDATE_USER", "user", id, c.ClientIP(), changes)

	c.JSON(http.StatusOK, user)
}

// Delete removes a user
// @Summary     Delete a user
// @Tags        users
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     204 "User deleted"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [delete]
// @Router      /users/delete/{id} [post]
func (h *UserHandler) Delete(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actorID, "DELETE_USER", "user", id, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}
