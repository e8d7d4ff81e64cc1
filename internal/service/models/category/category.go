package category

import (
	"time"
)

// Category is a catalog grouping. Name is unique; ParentCategoryID is nil
// for top-level categories.
type Category struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	ParentCategoryID *int64    `json:"parent_category_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// QueryCategoriesModel represents filter parameters for querying categories.
type QueryCategoriesModel struct {
	Ids    []int64 `json:"ids,omitempty"`
	Limit  int     `json:"limit,omitempty"`
	Offset int     `json:"offset,omitempty"`
}
