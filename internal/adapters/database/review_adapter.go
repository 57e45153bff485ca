package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var reviewColumns = []interface{}{
	"id", "user_id", "facility_id", "rating", "comment", "created_at", "updated_at",
}

func scanReview(scanner interface{ Scan(...interface{}) error }) (*entities.Review, error) {
	review := &entities.Review{}
	err := scanner.Scan(
		&review.ID,
		&review.UserID,
		&review.FacilityID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Create creates a new review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	record := goqu.Record{
		"id":          review.ID,
		"user_id":     review.UserID,
		"facility_id": review.FacilityID,
		"rating":      review.Rating,
		"comment":     review.Comment,
		"created_at":  review.CreatedAt,
		"updated_at":  review.UpdatedAt,
	}

	query, args, err := a.db.Insert("reviews").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("user %s already reviewed facility %s", review.UserID, review.FacilityID))
		}
		return apperrors.NewInternalError("failed to create review", err)
	}

	return nil
}

// GetByID retrieves a review by ID
func (a *ReviewAdapter) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	query, args, err := a.db.Select(reviewColumns...).From("reviews").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	review, err := scanReview(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review", err)
	}

	return review, nil
}

// ListByFacility retrieves reviews for a facility, newest first
func (a *ReviewAdapter) ListByFacility(ctx context.Context, facilityID string, limit, offset int) ([]*entities.Review, error) {
	return a.list(ctx, goqu.Ex{"facility_id": facilityID}, limit, offset)
}

// ListByUser retrieves reviews by a user, newest first
func (a *ReviewAdapter) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Review, error) {
	return a.list(ctx, goqu.Ex{"user_id": userID}, limit, offset)
}

func (a *ReviewAdapter) list(ctx context.Context, where goqu.Ex, limit, offset int) ([]*entities.Review, error) {
	ds := a.db.Select(reviewColumns...).From("reviews").
		Where(where).
		Order(goqu.I("created_at").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	var reviews []*entities.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate reviews", err)
	}

	return reviews, nil
}

// Delete deletes a review
func (a *ReviewAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("reviews").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete review", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("review with id %s not found", id))
}

// AggregateByFacility computes the average rating and review count of a
// facility. A facility without reviews aggregates to (0, 0).
func (a *ReviewAdapter) AggregateByFacility(ctx context.Context, facilityID string) (float64, int, error) {
	query, args, err := a.db.Select(
		goqu.COALESCE(goqu.AVG("rating"), 0),
		goqu.COUNT("id"),
	).From("reviews").Where(goqu.Ex{"facility_id": facilityID}).ToSQL()
	if err != nil {
		return 0, 0, apperrors.NewInternalError("failed to build query", err)
	}

	var rating float64
	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&rating, &count); err != nil {
		return 0, 0, apperrors.NewInternalError("failed to aggregate reviews", err)
	}

	return rating, count, nil
}
