package books

import (
	"net/http"
	"strconv"

	bookstore "github.com/dalemusser/shelfhub/internal/app/store/books"
	"github.com/dalemusser/shelfhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// pageResponse is the shape of paginated book lists.
type pageResponse struct {
	Books       []models.Book `json:"books"`
	TotalBooks  int64         `json:"totalBooks"`
	TotalPages  int64         `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
}

// statsResponse is the shape of the statistics endpoint.
type statsResponse struct {
	TotalBooks    int64                     `json:"totalBooks"`
	UniqueTitles  int64                     `json:"totalUniqueBooks"`
	TotalStock    int64                     `json:"totalStock"`
	TotalBorrowed int64                     `json:"totalBorrowed"`
	ByCategory    []bookstore.CategoryCount `json:"booksByCategory"`
}

// updateBody carries the PATCH fields; absent fields stay nil and are
// not written.
type updateBody struct {
	Title       *string  `json:"title"`
	AuthorName  *string  `json:"author_name"`
	Category    *string  `json:"category"`
	Rating      *float64 `json:"rating"`
	Quantity    *int     `json:"quantity"`
	Description *string  `json:"description"`
	CoverURL    *string  `json:"cover_url"`
}

// paging reads page and limit query params, falling back to page 1 and
// the handler's default page size.
func (h *Handler) paging(r *http.Request) (page, limit int) {
	page = 1
	if n, err := strconv.Atoi(query.Get(r, "page")); err == nil && n >= 1 {
		page = n
	}
	limit = h.PageSize
	if n, err := strconv.Atoi(query.Get(r, "limit")); err == nil && n >= 1 {
		limit = n
	}
	return page, limit
}

func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
