package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"financeiro/internal/cache"
	"financeiro/internal/dto"
	apperrors "financeiro/internal/errors"
	"financeiro/internal/logger"
	"financeiro/internal/models"
	"financeiro/internal/pagination"
	"financeiro/internal/repository"
)

var userSortColumns = map[string]string{
	"id":        "id",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
}

// userService handles user-related business logic.
type userService struct {
	tx          *repository.Transactor
	users       repository.Store[models.User]
	roles       repository.Store[models.Role]
	authorities cache.AuthorityCache
	bcryptCost  int
}

// NewUserService creates a new UserServicer. A nil cache disables caching.
func NewUserService(st *Stores, authorities cache.AuthorityCache) UserServicer {
	if authorities == nil {
		authorities = cache.NopAuthorityCache{}
	}
	return &userService{
		tx:          st.Tx,
		users:       st.Users,
		roles:       st.Roles,
		authorities: authorities,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

// FindAll returns one page of users with their roles.
func (s *userService) FindAll(ctx context.Context, page pagination.PageRequest) (*pagination.Page[dto.UserDTO], error) {
	page.Defaults()
	if err := page.ResolveSort(userSortColumns, pagination.Order{Column: "id"}); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	var out pagination.Page[dto.UserDTO]
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		users, err := s.users.FindPage(ctx, page, repository.Preload("Roles"))
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		out = pagination.Map(users, func(u models.User) dto.UserDTO { return dto.NewUserDTO(&u) })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID returns a single user with roles.
func (s *userService) FindByID(ctx context.Context, id int64) (*dto.UserDTO, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewUserDTO(user)
	return &out, nil
}

// GetByID loads the user model with roles.
func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user *models.User
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.FindByID(ctx, id, repository.Preload("Roles"))
		if err != nil {
			return lookupError(err, apperrors.ErrUserNotFound)
		}
		return nil
	})
	return user, err
}

// FindByEmail loads the user model with roles by email.
func (s *userService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user *models.User
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.FindOne(ctx, repository.Where("email = ?", normalizeEmail(email)), repository.Preload("Roles"))
		if err != nil {
			return lookupError(err, apperrors.ErrUserNotFound)
		}
		return nil
	})
	return user, err
}

// Insert creates a user after checking the email is not taken.
func (s *userService) Insert(ctx context.Context, in dto.UserInsertDTO) (*dto.UserDTO, error) {
	if in.Password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "password is required")
	}
	email := normalizeEmail(in.Email)

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var out dto.UserDTO
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := validateNewEmail(ctx, s.users, email); err != nil {
			return err
		}

		roles, err := s.resolveRoles(ctx, in.RoleIDs())
		if err != nil {
			return err
		}

		user := &models.User{
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			Email:     email,
			Password:  hash,
		}
		if err := s.users.Save(ctx, user); err != nil {
			if repository.IsDuplicateKey(err) {
				return apperrors.ErrDuplicateEmail
			}
			return writeError(err)
		}
		if len(roles) > 0 {
			if err := s.users.ReplaceAssociation(ctx, user, "Roles", roles); err != nil {
				return writeError(err)
			}
		}

		user.Roles = roles
		out = dto.NewUserDTO(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update overwrites names, email and roles. The email is not checked for
// duplicates here; a collision fails at the unique index. An empty password
// keeps the current one.
func (s *userService) Update(ctx context.Context, id int64, in dto.UserUpdateDTO) (*dto.UserDTO, error) {
	var hash string
	if in.Password != "" {
		var err error
		if hash, err = s.hashPassword(in.Password); err != nil {
			return nil, err
		}
	}

	// Invalidated on both sides of the commit so a concurrent Authorities
	// call cannot leave the old roles cached.
	s.authorities.Invalidate(ctx, id)

	var out dto.UserDTO
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return lookupError(err, apperrors.ErrUserNotFound)
		}

		roles, err := s.resolveRoles(ctx, in.RoleIDs())
		if err != nil {
			return err
		}

		user.FirstName = strings.TrimSpace(in.FirstName)
		user.LastName = strings.TrimSpace(in.LastName)
		user.Email = normalizeEmail(in.Email)
		if hash != "" {
			user.Password = hash
		}
		if err := s.users.Save(ctx, user); err != nil {
			return writeError(err)
		}
		if err := s.replaceRoles(ctx, user, roles); err != nil {
			return err
		}

		user.Roles = roles
		out = dto.NewUserDTO(user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.authorities.Invalidate(ctx, id)
	return &out, nil
}

// Delete removes a user and its role links in one transaction.
func (s *userService) Delete(ctx context.Context, id int64) error {
	s.authorities.Invalidate(ctx, id)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return lookupError(err, apperrors.ErrUserNotFound)
		}
		if err := s.users.ClearAssociation(ctx, user, "Roles"); err != nil {
			return writeError(err)
		}
		if err := s.users.Delete(ctx, id); err != nil {
			return writeError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.authorities.Invalidate(ctx, id)
	return nil
}

// Authenticate checks an email and password pair. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// Authorities returns the user's current authorities, consulting the cache
// first.
func (s *userService) Authorities(ctx context.Context, id int64) ([]string, error) {
	if authorities, ok := s.authorities.Get(ctx, id); ok {
		return authorities, nil
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	authorities := user.Authorities()
	s.authorities.Set(ctx, id, authorities)
	return authorities, nil
}

// StoreRefreshTokenHash records the hash of the user's current refresh token.
func (s *userService) StoreRefreshTokenHash(ctx context.Context, id int64, tokenHash string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Update(ctx, id, map[string]any{"refresh_token_hash": tokenHash}); err != nil {
			return lookupError(err, apperrors.ErrUserNotFound)
		}
		return nil
	})
}

// EnsureAdmin creates an administrator with the given credentials. When a
// user with that email already exists, its password is left alone and
// ROLE_ADMIN is granted if missing.
func (s *userService) EnsureAdmin(ctx context.Context, email, password string) error {
	var grantedTo int64
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		role, err := s.roles.FindOne(ctx, repository.Where("authority = ?", models.RoleAdmin))
		if err != nil {
			return lookupError(err, apperrors.ErrRoleNotFound)
		}

		existing, err := s.users.FindOne(ctx, repository.Where("email = ?", normalizeEmail(email)), repository.Preload("Roles"))
		switch {
		case err == nil:
			if existing.HasAuthority(models.RoleAdmin) {
				return nil
			}
			if err := s.replaceRoles(ctx, existing, append(existing.Roles, *role)); err != nil {
				return err
			}
			grantedTo = existing.ID
			logger.FromContext(ctx).Infow("Granted ROLE_ADMIN to existing user", "user_id", existing.ID)
			return nil
		case !errors.Is(err, repository.ErrNotFound):
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		in := dto.UserInsertDTO{
			UserDTO: dto.UserDTO{
				FirstName: "Admin",
				Email:     email,
				Roles:     []dto.RoleDTO{{ID: role.ID}},
			},
			Password: password,
		}
		if _, err := s.Insert(ctx, in); err != nil {
			return err
		}
		logger.FromContext(ctx).Infow("Bootstrap administrator created", "email", normalizeEmail(email))
		return nil
	})
	if err != nil {
		return err
	}
	if grantedTo != 0 {
		s.authorities.Invalidate(ctx, grantedTo)
	}
	return nil
}

// resolveRoles loads the roles with the given ids, failing when any is
// missing.
func (s *userService) resolveRoles(ctx context.Context, ids []int64) ([]models.Role, error) {
	if len(ids) == 0 {
		return []models.Role{}, nil
	}
	roles, err := s.roles.FindAll(ctx, repository.Where("id IN ?", ids))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	found := make(map[int64]bool, len(roles))
	for _, r := range roles {
		found[r.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, apperrors.ErrRoleNotFound
		}
	}
	return roles, nil
}

func (s *userService) replaceRoles(ctx context.Context, user *models.User, roles []models.Role) error {
	var err error
	if len(roles) == 0 {
		err = s.users.ClearAssociation(ctx, user, "Roles")
	} else {
		err = s.users.ReplaceAssociation(ctx, user, "Roles", roles)
	}
	if err != nil {
		return writeError(err)
	}
	return nil
}

func (s *userService) hashPassword(password string) (string, error) {
	return hashPassword(password, s.bcryptCost)
}
