package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/zatekoja/fitbookingdesign/backend/pkg/config"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/retry"
)

// FacilitiesCollection is the search collection holding facility documents
const FacilitiesCollection = "facilities"

// Client wraps the Typesense SDK client
type Client struct {
	client *typesense.Client
}

// NewClient dials Typesense, retrying with backoff until the health
// endpoint answers.
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	healthCheck := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := client.Health(ctx, 2*time.Second)
		return err
	}

	err := retry.DoWithLog(context.Background(), retry.DefaultConfig(), "Typesense", healthCheck,
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().
				Err(err).
				Int("attempt", attempt).
				Dur("next_delay", nextDelay).
				Msg("Typesense connection attempt failed")
		})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense: %w", err)
	}

	log.Info().Msg("Connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying SDK client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema creates the facilities collection if it does not exist yet
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}
	for _, col := range collections {
		if col.Name == FacilitiesCollection {
			return nil
		}
	}

	schema := &api.CollectionSchema{
		Name: FacilitiesCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "description", Type: "string", Optional: pointer.True()},
			{Name: "brand_id", Type: "string", Facet: pointer.True()},
			{Name: "categories", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "city", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "location", Type: "geopoint"},
			{Name: "rating", Type: "float", Facet: pointer.True()},
			{Name: "review_count", Type: "int32"},
			{Name: "is_active", Type: "bool"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", FacilitiesCollection).Msg("Created Typesense collection")
	return nil
}
