package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"financeiro/internal/dto"
	"financeiro/internal/services"
)

// MemberHandler handles household member requests.
type MemberHandler struct {
	memberService services.MemberServicer
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService services.MemberServicer) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// FindAll returns every member
// @Summary     List members
// @Tags        members
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  dto.MemberDTO "List of members"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /members [get]
func (h *MemberHandler) FindAll(c *gin.Context) {
	members, err := h.memberService.FindAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// FindByID returns a single member
// @Summary     Get member by ID
// @Tags        members
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Member ID"
// @Success     200 {object} dto.MemberDTO "Member"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /members/{id} [get]
func (h *MemberHandler) FindByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	member, err := h.memberService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// Insert creates a member
// @Summary     Create a member
// @Description The creation date defaults to today when omitted.
// @Tags        members
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body dto.MemberDTO true "Member details"
// @Success     201 {object} dto.MemberDTO "Member created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /members [post]
func (h *MemberHandler) Insert(c *gin.Context) {
	var req dto.MemberDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	member, err := h.memberService.Insert(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/members/%d", member.ID))
	c.JSON(http.StatusCreated, member)
}

// Update overwrites a member's name and role
// @Summary     Update a member
// @Tags        members
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int           true "Member ID"
// @Param       request body dto.MemberDTO true "Member details"
// @Success     200 {object} dto.MemberDTO "Member updated"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /members/{id} [put]
func (h *MemberHandler) Update(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req dto.MemberDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	member, err := h.memberService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// Delete removes a member
// @Summary     Delete a member
// @Tags        members
// @Security    BearerAuth
// @Param       id path int true "Member ID"
// @Success     204 "Member deleted"
// @Failure     400 {object} ErrorResponse "Member in use"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /members/{id} [delete]
func (h *MemberHandler) Delete(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.memberService.Delete(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
