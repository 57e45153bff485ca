// Package listing normalizes the pagination, sorting and search options
// shared by every listing endpoint into a single query descriptor that the
// database adapters apply uniformly.
package listing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

const (
	// DefaultSortField is used when no sort field is requested
	DefaultSortField = "created_at"

	// SortAsc and SortDesc are the recognized sort orders
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Options is the normalized query descriptor for listing endpoints.
// A zero Limit means no row limit.
type Options struct {
	Limit       int
	Offset      int
	SearchField string
	SearchValue string
	SortField   string
	SortOrder   string
}

// Defaults returns the options used when no parameters are supplied
func Defaults() Options {
	return Options{
		Offset:    0,
		SortField: DefaultSortField,
		SortOrder: SortAsc,
	}
}

// ParseOptions extracts recognized listing options from query parameters.
// Unknown parameters are ignored. Sort and search fields are only honored
// when they appear in allowedFields, so handlers control which columns are
// reachable from the query string.
func ParseOptions(values url.Values, allowedFields ...string) Options {
	opts := Defaults()

	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	if offset, err := strconv.Atoi(values.Get("offset")); err == nil && offset > 0 {
		opts.Offset = offset
	}

	if field := strings.TrimSpace(values.Get("sort_field")); field != "" && fieldAllowed(field, allowedFields) {
		opts.SortField = field
	}
	if order := strings.ToLower(strings.TrimSpace(values.Get("sort_order"))); order == SortDesc {
		opts.SortOrder = SortDesc
	}

	searchField := strings.TrimSpace(values.Get("search_field"))
	searchValue := values.Get("search_value")
	if searchField != "" && searchValue != "" && fieldAllowed(searchField, allowedFields) {
		opts.SearchField = searchField
		opts.SearchValue = searchValue
	}

	return opts
}

// Apply maps the descriptor onto a goqu dataset
func (o Options) Apply(ds *goqu.SelectDataset) *goqu.SelectDataset {
	if o.SearchField != "" {
		ds = ds.Where(goqu.Ex{o.SearchField: o.SearchValue})
	}

	var order exp.OrderedExpression
	if o.SortOrder == SortDesc {
		order = goqu.I(o.SortField).Desc()
	} else {
		order = goqu.I(o.SortField).Asc()
	}
	ds = ds.Order(order)

	if o.Limit > 0 {
		ds = ds.Limit(uint(o.Limit))
	}
	if o.Offset > 0 {
		ds = ds.Offset(uint(o.Offset))
	}

	return ds
}

func fieldAllowed(field string, allowed []string) bool {
	for _, f := range allowed {
		if f == field {
			return true
		}
	}
	return false
}
