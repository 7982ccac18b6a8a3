package dto

import "financeiro/internal/models"

// CategoryDTO is the API shape of a category.
type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name" binding:"required,max=255"`
}

// NewCategoryDTO converts a category model.
func NewCategoryDTO(c *models.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name}
}

// NewCategoryDTOs converts a list of category models.
func NewCategoryDTOs(categories []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, len(categories))
	for i := range categories {
		out[i] = NewCategoryDTO(&categories[i])
	}
	return out
}
