package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentToFacility(t *testing.T) {
	doc := map[string]interface{}{
		"id":           "facility-1",
		"name":         "Downtown Gym",
		"description":  "24/7 gym in the city center",
		"brand_id":     "brand-1",
		"city":         "Lagos",
		"categories":   []interface{}{"gym", "crossfit"},
		"location":     []interface{}{6.45, 3.39},
		"rating":       4.5,
		"review_count": 12.0,
		"is_active":    true,
	}

	facility := documentToFacility(doc)

	assert.Equal(t, "facility-1", facility.ID)
	assert.Equal(t, "Downtown Gym", facility.Name)
	assert.Equal(t, "brand-1", facility.BrandID)
	assert.Equal(t, "Lagos", facility.Address.City)
	assert.Equal(t, []string{"gym", "crossfit"}, facility.Categories)
	assert.Equal(t, 6.45, facility.Location.Latitude)
	assert.Equal(t, 3.39, facility.Location.Longitude)
	assert.Equal(t, 4.5, facility.Rating)
	assert.Equal(t, 12, facility.ReviewCount)
	assert.True(t, facility.IsActive)
}

func TestDocumentToFacilityIgnoresBadTypes(t *testing.T) {
	doc := map[string]interface{}{
		"id":           "facility-1",
		"name":         42,
		"categories":   "not-a-list",
		"location":     []interface{}{"a", "b"},
		"review_count": "many",
	}

	facility := documentToFacility(doc)

	assert.Equal(t, "facility-1", facility.ID)
	assert.Empty(t, facility.Name)
	assert.Empty(t, facility.Categories)
	assert.Zero(t, facility.Location.Latitude)
	assert.Zero(t, facility.ReviewCount)
}
