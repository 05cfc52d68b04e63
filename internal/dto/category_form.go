// File: internal/dto/category_form.go
package dto

import "strings"

// swagger:model dto.CategoryForm
type CategoryForm struct {
	Name string `form:"name" validate:"required" example:"Tech"`
}

func (f *CategoryForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
}

var CategoryMessages = Messages{
	"Name": "Category name is required",
}
