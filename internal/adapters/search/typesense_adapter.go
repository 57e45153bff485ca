package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	tsclient "github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements facility search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements FacilitySearchRepository
var _ repositories.FacilitySearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a facility document into the search collection
func (a *TypesenseAdapter) Index(ctx context.Context, facility *entities.Facility) error {
	document := map[string]interface{}{
		"id":           facility.ID,
		"name":         facility.Name,
		"description":  facility.Description,
		"brand_id":     facility.BrandID,
		"categories":   facility.Categories,
		"city":         facility.Address.City,
		"location":     []float64{facility.Location.Latitude, facility.Location.Longitude},
		"rating":       facility.Rating,
		"review_count": facility.ReviewCount,
		"is_active":    facility.IsActive,
		"created_at":   facility.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.FacilitiesCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index facility: %w", err)
	}

	return nil
}

// Delete removes a facility from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.FacilitiesCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete facility from index: %w", err)
	}
	return nil
}

// Search queries facilities by name, description and city. Archived
// facilities are filtered out at the index level.
func (a *TypesenseAdapter) Search(ctx context.Context, params repositories.FacilitySearchParams) ([]*entities.Facility, int, error) {
	query := params.Query
	if query == "" {
		query = "*"
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	filters := []string{"is_active:=true"}
	if len(params.Categories) > 0 {
		filters = append(filters, fmt.Sprintf("categories:=[%s]", strings.Join(params.Categories, ",")))
	}
	if params.MinRating != nil {
		filters = append(filters, fmt.Sprintf("rating:>=%f", *params.MinRating))
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("name,description,city"),
		FilterBy: pointer.String(strings.Join(filters, " && ")),
		Page:     pointer.Int(params.Offset/limit + 1),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.FacilitiesCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search facilities: %w", err)
	}

	total := 0
	if result.Found != nil {
		total = *result.Found
	}

	facilities := []*entities.Facility{}
	if result.Hits == nil {
		return facilities, total, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		facilities = append(facilities, documentToFacility(*hit.Document))
	}

	return facilities, total, nil
}

// documentToFacility rebuilds a partial facility from a search document.
// Typesense hands back map[string]interface{}, so every field is cast
// defensively; callers needing full rows fetch them from the database.
func documentToFacility(doc map[string]interface{}) *entities.Facility {
	facility := &entities.Facility{}

	if val, ok := doc["id"].(string); ok {
		facility.ID = val
	}
	if val, ok := doc["name"].(string); ok {
		facility.Name = val
	}
	if val, ok := doc["description"].(string); ok {
		facility.Description = val
	}
	if val, ok := doc["brand_id"].(string); ok {
		facility.BrandID = val
	}
	if val, ok := doc["city"].(string); ok {
		facility.Address.City = val
	}
	if val, ok := doc["is_active"].(bool); ok {
		facility.IsActive = val
	}
	if val, ok := doc["rating"].(float64); ok {
		facility.Rating = val
	}
	if val, ok := doc["review_count"].(float64); ok {
		facility.ReviewCount = int(val)
	}

	if categories, ok := doc["categories"].([]interface{}); ok {
		for _, c := range categories {
			if s, ok := c.(string); ok {
				facility.Categories = append(facility.Categories, s)
			}
		}
	}

	if location, ok := doc["location"].([]interface{}); ok && len(location) == 2 {
		if lat, ok := location[0].(float64); ok {
			facility.Location.Latitude = lat
		}
		if lon, ok := location[1].(float64); ok {
			facility.Location.Longitude = lon
		}
	}

	return facility
}
