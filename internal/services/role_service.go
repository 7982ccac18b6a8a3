package services

import (
	"context"
	"strings"

	"financeiro/internal/dto"
	apperrors "financeiro/internal/errors"
	"financeiro/internal/models"
	"financeiro/internal/repository"
)

type roleService struct {
	tx    *repository.Transactor
	roles repository.Store[models.Role]
}

// NewRoleService creates a new RoleServicer.
func NewRoleService(st *Stores) RoleServicer {
	return &roleService{tx: st.Tx, roles: st.Roles}
}

func (s *roleService) FindAll(ctx context.Context) ([]dto.RoleDTO, error) {
	var out []dto.RoleDTO
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		roles, err := s.roles.FindAll(ctx, repository.OrderBy("id", false))
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		out = dto.NewRoleDTOs(roles)
		return nil
	})
	return out, err
}

func (s *roleService) FindByID(ctx context.Context, id int64) (*dto.RoleDTO, error) {
	var out dto.RoleDTO
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		role, err := s.roles.FindByID(ctx, id)
		if err != nil {
			return lookupError(err, apperrors.ErrRoleNotFound)
		}
		out = dto.NewRoleDTO(role)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *roleService) Insert(ctx context.Context, in dto.RoleDTO) (*dto.RoleDTO, error) {
	role := &models.Role{Authority: strings.TrimSpace(in.Authority)}
	if role.Authority == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "authority is required")
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.roles.Save(ctx, role); err != nil {
			return writeError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := dto.NewRoleDTO(role)
	return &out, nil
}

func (s *roleService) Update(ctx context.Context, id int64, in dto.RoleDTO) (*dto.RoleDTO, error) {
	authority := strings.TrimSpace(in.Authority)
	if authority == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "authority is required")
	}

	var out dto.RoleDTO
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		role, err := s.roles.FindByID(ctx, id)
		if err != nil {
			return lookupError(err, apperrors.ErrRoleNotFound)
		}

		role.Authority = authority
		if err := s.roles.Save(ctx, role); err != nil {
			return writeError(err)
		}
		out = dto.NewRoleDTO(role)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a role. A missing id is reported as not found before any
// database access that could fail; a role still assigned to users yields a
// database error.
func (s *roleService) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := mustExist(ctx, s.roles, id, apperrors.ErrRoleNotFound); err != nil {
			return err
		}
		if err := s.roles.Delete(ctx, id); err != nil {
			return writeError(err)
		}
		return nil
	})
}
