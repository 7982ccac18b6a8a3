package dto

import "financeiro/internal/models"

// RoleDTO is the API shape of a role.
type RoleDTO struct {
	ID        int64  `json:"id"`
	Authority string `json:"authority" binding:"required,authority"`
}

// NewRoleDTO converts a role model.
func NewRoleDTO(r *models.Role) RoleDTO {
	return RoleDTO{ID: r.ID, Authority: r.Authority}
}

// NewRoleDTOs converts a list of role models.
func NewRoleDTOs(roles []models.Role) []RoleDTO {
	out := make([]RoleDTO, len(roles))
	for i := range roles {
		out[i] = NewRoleDTO(&roles[i])
	}
	return out
}
