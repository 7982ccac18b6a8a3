package dto

import "financeiro/internal/models"

// MemberDTO is the API shape of a household member.
type MemberDTO struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name" binding:"required,max=255"`
	Role      string      `json:"role" binding:"max=255"`
	CreatedAt models.Date `json:"createdAt"`
}

// NewMemberDTO converts a member model.
func NewMemberDTO(m *models.Member) MemberDTO {
	return MemberDTO{ID: m.ID, Name: m.Name, Role: m.Role, CreatedAt: m.CreatedAt}
}

// NewMemberDTOs converts a list of member models.
func NewMemberDTOs(members []models.Member) []MemberDTO {
	out := make([]MemberDTO, len(members))
	for i := range members {
		out[i] = NewMemberDTO(&members[i])
	}
	return out
}
