package services

import (
	"context"
	"strings"

	"financeiro/internal/dto"
	apperrors "financeiro/internal/errors"
	"financeiro/internal/models"
	"financeiro/internal/repository"
)

// categoryService handles category-related business logic.
type categoryService struct {
	tx         *repository.Transactor
	categories repository.Store[models.Category]
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(st *Stores) CategoryServicer {
	return &categoryService{tx: st.Tx, categories: st.Categories}
}

// FindAll returns every category ordered by id.
func (s *categoryService) FindAll(ctx context.Context) ([]dto.CategoryDTO, error) {
	var out []dto.CategoryDTO
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		categories, err := s.categories.FindAll(ctx, repository.OrderBy("id", false))
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		out = dto.NewCategoryDTOs(categories)
		return nil
	})
	return out, err
}

// FindByID returns a single category.
func (s *categoryService) FindByID(ctx context.Context, id int64) (*dto.CategoryDTO, error) {
	var out dto.CategoryDTO
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		category, err := s.categories.FindByID(ctx, id)
		if err != nil {
			return lookupError(err, apperrors.ErrCategoryNotFound)
		}
		out = dto.NewCategoryDTO(category)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Insert creates a category. Any id in the input is ignored.
func (s *categoryService) Insert(ctx context.Context, in dto.CategoryDTO) (*dto.CategoryDTO, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category := &models.Category{Name: name}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.categories.Save(ctx, category); err != nil {
			return writeError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := dto.NewCategoryDTO(category)
	return &out, nil
}

// Update renames an existing category.
func (s *categoryService) Update(ctx context.Context, id int64, in dto.CategoryDTO) (*dto.CategoryDTO, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var out dto.CategoryDTO
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		category, err := s.categories.FindByID(ctx, id)
		if err != nil {
			return lookupError(err, apperrors.ErrCategoryNotFound)
		}

		category.Name = name
		if err := s.categories.Save(ctx, category); err != nil {
			return writeError(err)
		}
		out = dto.NewCategoryDTO(category)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a category. A category still referenced by transactions
// cannot be deleted.
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := mustExist(ctx, s.categories, id, apperrors.ErrCategoryNotFound); err != nil {
			return err
		}
		if err := s.categories.Delete(ctx, id); err != nil {
			return writeError(err)
		}
		return nil
	})
}
