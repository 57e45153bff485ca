package repositories

import (
	"context"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/listing"
)

// PromotionRepository defines the interface for promotion operations
type PromotionRepository interface {
	Create(ctx context.Context, promotion *entities.Promotion) error
	GetByID(ctx context.Context, id string) (*entities.Promotion, error)
	GetByCode(ctx context.Context, code string) (*entities.Promotion, error)
	List(ctx context.Context, opts listing.Options) ([]*entities.Promotion, error)
	Update(ctx context.Context, promotion *entities.Promotion) error
	Delete(ctx context.Context, id string) error
}
