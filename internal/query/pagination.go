package query

import (
	"net/url"
	"strings"

	"gorm.io/gorm"

	"github.com/gauravsahdz/ecommerce-api/internal/utils"
)

// Options carries the per-resource pagination and sorting configuration
// consulted during translation. Zero values fall back to package defaults.
type Options struct {
	// DefaultLimit is the page size used when the client sends none.
	DefaultLimit int
	// MaxLimit caps the page size to bound worst-case query cost.
	MaxLimit int
	// DefaultSort is the sortBy value used when the client sends none.
	DefaultSort string
	// SortColumns maps permitted sortBy values to database columns. A sortBy
	// outside the map falls back to DefaultSort rather than erroring.
	SortColumns map[string]string
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	defaultSort  = "createdAt"
)

// Plan is the computed skip/limit/sort parameters for one list query.
type Plan struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string

	sortColumn string
}

// Skip returns the number of rows to skip, always >= 0.
func (p Plan) Skip() int { return (p.Page - 1) * p.Limit }

// Apply composes the plan's ordering, offset, and limit onto a GORM query.
func (p Plan) Apply(db *gorm.DB) *gorm.DB {
	dir := "DESC"
	if p.SortOrder == "asc" {
		dir = "ASC"
	}
	return db.Order(p.sortColumn + " " + dir).Offset(p.Skip()).Limit(p.Limit)
}

// translatePlan parses page/limit/sortBy/sortOrder leniently: malformed or
// non-positive values fall back to defaults instead of failing the request.
func translatePlan(params url.Values, opt Options) Plan {
	defLimit := opt.DefaultLimit
	if defLimit <= 0 {
		defLimit = defaultLimit
	}
	max := opt.MaxLimit
	if max <= 0 {
		max = maxLimit
	}
	defSort := opt.DefaultSort
	if defSort == "" {
		defSort = defaultSort
	}

	page := utils.AtoiDefault(params.Get("page"), defaultPage)
	if page < 1 {
		page = defaultPage
	}
	limit := utils.AtoiDefault(params.Get("limit"), defLimit)
	if limit < 1 {
		limit = defLimit
	}
	if limit > max {
		limit = max
	}

	sortBy := strings.TrimSpace(params.Get("sortBy"))
	col, ok := opt.SortColumns[sortBy]
	if !ok {
		sortBy = defSort
		if c, ok := opt.SortColumns[defSort]; ok {
			col = c
		} else {
			col = snakeCase(defSort)
		}
	}

	sortOrder := strings.ToLower(strings.TrimSpace(params.Get("sortOrder")))
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	return Plan{
		Page:       page,
		Limit:      limit,
		SortBy:     sortBy,
		SortOrder:  sortOrder,
		sortColumn: col,
	}
}
