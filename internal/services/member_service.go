package services

import (
	"context"
	"strings"

	"financeiro/internal/dto"
	apperrors "financeiro/internal/errors"
	"financeiro/internal/models"
	"financeiro/internal/repository"
)

type memberService struct {
	tx      *repository.Transactor
	members repository.Store[models.Member]
}

// NewMemberService creates a new MemberServicer.
func NewMemberService(st *Stores) MemberServicer {
	return &memberService{tx: st.Tx, members: st.Members}
}

func (s *memberService) FindAll(ctx context.Context) ([]dto.MemberDTO, error) {
	var out []dto.MemberDTO
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		members, err := s.members.FindAll(ctx, repository.OrderBy("id", false))
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		out = dto.NewMemberDTOs(members)
		return nil
	})
	return out, err
}

func (s *memberService) FindByID(ctx context.Context, id int64) (*dto.MemberDTO, error) {
	var out dto.MemberDTO
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		member, err := s.members.FindByID(ctx, id)
		if err != nil {
			return lookupError(err, apperrors.ErrMemberNotFound)
		}
		out = dto.NewMemberDTO(member)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Insert creates a member. The creation date defaults to today.
func (s *memberService) Insert(ctx context.Context, in dto.MemberDTO) (*dto.MemberDTO, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "member name is required")
	}

	member := &models.Member{
		Name:      name,
		Role:      strings.TrimSpace(in.Role),
		CreatedAt: in.CreatedAt,
	}
	if member.CreatedAt.IsZero() {
		member.CreatedAt = models.Today()
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.members.Save(ctx, member); err != nil {
			return writeError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := dto.NewMemberDTO(member)
	return &out, nil
}

// Update overwrites name and role. The creation date is preserved.
func (s *memberService) Update(ctx context.Context, id int64, in dto.MemberDTO) (*dto.MemberDTO, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "member name is required")
	}

	var out dto.MemberDTO
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		member, err := s.members.FindByID(ctx, id)
		if err != nil {
			return lookupError(err, apperrors.ErrMemberNotFound)
		}

		member.Name = name
		member.Role = strings.TrimSpace(in.Role)
		if err := s.members.Save(ctx, member); err != nil {
			return writeError(err)
		}
		out = dto.NewMemberDTO(member)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a member. Members referenced by transactions cannot be
// deleted.
func (s *memberService) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := mustExist(ctx, s.members, id, apperrors.ErrMemberNotFound); err != nil {
			return err
		}
		if err := s.members.Delete(ctx, id); err != nil {
			return writeError(err)
		}
		return nil
	})
}
