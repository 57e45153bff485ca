package listing

import (
	"net/url"
	"testing"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/stretchr/testify/assert"
)

func TestParseOptions_Defaults(t *testing.T) {
	opts := ParseOptions(url.Values{})

	assert.Equal(t, 0, opts.Limit)
	assert.Equal(t, 0, opts.Offset)
	assert.Equal(t, "created_at", opts.SortField)
	assert.Equal(t, SortAsc, opts.SortOrder)
	assert.Empty(t, opts.SearchField)
	assert.Empty(t, opts.SearchValue)
}

func TestParseOptions_RecognizedParams(t *testing.T) {
	values := url.Values{}
	values.Set("limit", "25")
	values.Set("offset", "50")
	values.Set("sort_field", "name")
	values.Set("sort_order", "desc")
	values.Set("search_field", "facility_type")
	values.Set("search_value", "gym")

	opts := ParseOptions(values, "name", "facility_type")

	assert.Equal(t, 25, opts.Limit)
	assert.Equal(t, 50, opts.Offset)
	assert.Equal(t, "name", opts.SortField)
	assert.Equal(t, SortDesc, opts.SortOrder)
	assert.Equal(t, "facility_type", opts.SearchField)
	assert.Equal(t, "gym", opts.SearchValue)
}

func TestParseOptions_IgnoresUnknownAndDisallowedFields(t *testing.T) {
	values := url.Values{}
	values.Set("sort_field", "password_hash")
	values.Set("search_field", "password_hash")
	values.Set("search_value", "x")
	values.Set("unknown", "whatever")
	values.Set("limit", "-5")

	opts := ParseOptions(values, "name")

	assert.Equal(t, "created_at", opts.SortField)
	assert.Empty(t, opts.SearchField)
	assert.Equal(t, 0, opts.Limit)
}

func TestParseOptions_InvalidSortOrderFallsBackToAsc(t *testing.T) {
	values := url.Values{}
	values.Set("sort_order", "sideways")

	opts := ParseOptions(values)

	assert.Equal(t, SortAsc, opts.SortOrder)
}

func TestOptions_Apply(t *testing.T) {
	opts := Options{
		Limit:       10,
		Offset:      20,
		SearchField: "facility_type",
		SearchValue: "gym",
		SortField:   "name",
		SortOrder:   SortDesc,
	}

	ds := goqu.Dialect("postgres").From("facilities").Select("id")
	sql, args, err := opts.Apply(ds).ToSQL()

	assert.NoError(t, err)
	assert.Contains(t, sql, `ORDER BY "name" DESC`)
	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, sql, "OFFSET")
	assert.Contains(t, sql, `"facility_type"`)
	assert.Empty(t, args)
}

func TestOptions_ApplyDefaultsProduceOnlyOrdering(t *testing.T) {
	ds := goqu.Dialect("postgres").From("packages").Select("id")
	sql, _, err := Defaults().Apply(ds).ToSQL()

	assert.NoError(t, err)
	assert.Contains(t, sql, `ORDER BY "created_at" ASC`)
	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, "OFFSET")
}
