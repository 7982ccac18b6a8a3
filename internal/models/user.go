package models

// User represents the user model in the database
type User struct {
	Base
	FirstName        string `gorm:"size:255" json:"firstName"`
	LastName         string `gorm:"size:255" json:"lastName"`
	Email            string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password         string `gorm:"not null" json:"-"`
	RefreshTokenHash string `gorm:"size:64" json:"-"`
	Roles            []Role `gorm:"many2many:user_roles;" json:"roles"`
}

// Authorities returns the authority names of the user's roles.
func (u *User) Authorities() []string {
	authorities := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		authorities = append(authorities, r.Authority)
	}
	return authorities
}

// HasAuthority reports whether the user holds the given authority.
func (u *User) HasAuthority(authority string) bool {
	for _, r := range u.Roles {
		if r.Authority == authority {
			return true
		}
	}
	return false
}
