package category

import "errors"

type CreateCategoryDTO struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (dto CreateCategoryDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if len(dto.Name) > 100 {
		return errors.New("name must be at most 100 characters")
	}
	return nil
}

type UpdateCategoryDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (dto UpdateCategoryDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return errors.New("name cannot be empty")
	}
	if dto.Name != nil && len(*dto.Name) > 100 {
		return errors.New("name must be at most 100 characters")
	}
	return nil
}
