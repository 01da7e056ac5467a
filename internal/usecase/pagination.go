package usecase

import "github.com/taskops/taskboard/internal/model"

// PageParams carries 1-based pagination input.
type PageParams struct {
	Page int
	Size int
}

// Validate rejects non-positive page numbers and sizes.
func (p PageParams) Validate() error {
	if p.Page < 1 {
		return model.NewValidationError("page number must be greater than 0")
	}
	if p.Size <= 0 {
		return model.NewValidationError("page size must be greater than 0")
	}
	return nil
}

// Offset converts the 1-based page/size pair into a record offset.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Size
}
