package handler

import "gorm.io/gorm"

// maxPerPage bounds the page size of offset-paginated listings.
const maxPerPage = 100

// PageMeta describes where a page sits in the full result set.
type PageMeta struct {
	Page    int   `json:"page" example:"1"`
	PerPage int   `json:"per_page" example:"10"`
	Total   int64 `json:"total" example:"42"`
	HasMore bool  `json:"has_more"`
}

// Page is one page of a listing.
type Page[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}

// paginate counts the full result set and reads one page window of it.
// page is 1-based; out-of-range inputs are clamped rather than rejected so
// listing endpoints degrade gracefully on sloppy query strings.
func paginate[T any](q *gorm.DB, page, perPage int) (*Page[T], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	items := make([]T, 0, perPage)
	offset := (page - 1) * perPage
	if err := q.Offset(offset).Limit(perPage).Find(&items).Error; err != nil {
		return nil, err
	}

	return &Page[T]{
		Items: items,
		Meta: PageMeta{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			HasMore: int64(offset+len(items)) < total,
		},
	}, nil
}
