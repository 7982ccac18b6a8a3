package dto

import "financeiro/internal/models"

// UserDTO is the API shape of a user. The password hash is never exposed.
type UserDTO struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName" binding:"required,max=255"`
	LastName  string    `json:"lastName" binding:"max=255"`
	Email     string    `json:"email" binding:"required,email,max=255"`
	Roles     []RoleDTO `json:"roles"`
}

// RoleIDs returns the ids of the referenced roles.
func (u UserDTO) RoleIDs() []int64 {
	ids := make([]int64, 0, len(u.Roles))
	for _, r := range u.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}

// UserInsertDTO is the body of a user creation request.
type UserInsertDTO struct {
	UserDTO
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// UserUpdateDTO is the body of a user update request. An empty password
// leaves the stored one unchanged.
type UserUpdateDTO struct {
	UserDTO
	Password string `json:"password" binding:"omitempty,min=6,max=72"`
}

// NewUserDTO converts a user model.
func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Roles:     NewRoleDTOs(u.Roles),
	}
}
