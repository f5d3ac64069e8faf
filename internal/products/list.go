package product

import (
	"strings"

	"github.com/canvasshub/canvasshub-backend/pkg/enums"
	"github.com/canvasshub/canvasshub-backend/pkg/pagination"
)

// AllCategories is the sentinel the storefront sends for "no category filter".
const AllCategories = "all"

// ListFilters narrows the catalog browse query.
type ListFilters struct {
	Category string
	Search   string
	// Status limits rows to one status; empty means any.
	Status enums.ProductStatus
}

type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

func (f ListFilters) normalized() ListFilters {
	out := ListFilters{
		Category: strings.TrimSpace(f.Category),
		Search:   strings.TrimSpace(f.Search),
		Status:   f.Status,
	}
	if strings.EqualFold(out.Category, AllCategories) {
		out.Category = ""
	}
	return out
}
