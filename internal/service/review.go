package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/copperline/shop/internal/domain"
	"github.com/copperline/shop/internal/event"
	"github.com/copperline/shop/internal/repository"
	apperrors "github.com/copperline/shop/pkg/errors"
)

// ReviewService implements the business logic for review operations and keeps
// each product's aggregate rating in sync.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	producer    *event.Producer
	logger      *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		producer:    producer,
		logger:      logger,
	}
}

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	ProductID string
	Rating    int
	Title     string
	Comment   string
}

// UpdateReviewInput holds the parameters for updating a review.
type UpdateReviewInput struct {
	Rating  int
	Title   string
	Comment string
}

// CreateReview creates a review after checking that the product exists and
// the user has not already reviewed it, then refreshes the product's rating.
func (s *ReviewService) CreateReview(ctx context.Context, userID string, input CreateReviewInput) (*domain.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	if _, err := s.productRepo.GetByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", input.ProductID)
		}
		return nil, fmt.Errorf("get product for review: %w", err)
	}

	_, err := s.reviewRepo.GetByProductAndUser(ctx, input.ProductID, userID)
	if err == nil {
		return nil, apperrors.DuplicateReview(input.ProductID)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check existing review: %w", err)
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		UserID:    userID,
		Rating:    input.Rating,
		Title:     input.Title,
		Comment:   input.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.refreshProductRating(ctx, input.ProductID)

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("product_id", input.ProductID),
		slog.Int("rating", input.Rating),
	)

	return review, nil
}

// UpdateReview modifies a review. Only the review's author may update it.
func (s *ReviewService) UpdateReview(ctx context.Context, id, userID string, input UpdateReviewInput) (*domain.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review for update: %w", err)
	}

	if review.UserID != userID {
		return nil, apperrors.Forbidden("you can only update your own reviews")
	}

	review.Rating = input.Rating
	review.Title = input.Title
	review.Comment = input.Comment
	review.UpdatedAt = time.Now().UTC()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.refreshProductRating(ctx, review.ProductID)

	return review, nil
}

// DeleteReview removes a review. The author or an admin may delete it.
func (s *ReviewService) DeleteReview(ctx context.Context, id, userID string, isAdmin bool) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get review for delete: %w", err)
	}

	if !isAdmin && review.UserID != userID {
		return apperrors.Forbidden("you can only delete your own reviews")
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.refreshProductRating(ctx, review.ProductID)

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", id),
		slog.String("product_id", review.ProductID),
	)

	return nil
}

// MarkHelpful increments a review's helpful counter.
func (s *ReviewService) MarkHelpful(ctx context.Context, id string) error {
	if err := s.reviewRepo.IncrementHelpful(ctx, id); err != nil {
		return fmt.Errorf("mark review helpful: %w", err)
	}
	return nil
}

// GetReview retrieves a review by its ID.
func (s *ReviewService) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review by id: %w", err)
	}
	return review, nil
}

// ListReviews returns a filtered, paginated list of reviews.
func (s *ReviewService) ListReviews(ctx context.Context, filter repository.ReviewFilter) ([]domain.Review, int, error) {
	clampPagination(&filter.Page, &filter.PerPage)

	reviews, total, err := s.reviewRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, total, nil
}

// refreshProductRating rescans the product's reviews and overwrites its
// rating fields. Concurrent mutations race here and the last write wins.
// Failures are logged; the triggering mutation has already succeeded.
func (s *ReviewService) refreshProductRating(ctx context.Context, productID string) {
	summary, err := s.reviewRepo.Summary(ctx, productID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to compute rating summary",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.productRepo.SetRating(ctx, productID, summary.Average, summary.Count); err != nil {
		s.logger.ErrorContext(ctx, "failed to update product rating",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.producer.PublishProductRatingUpdated(ctx, productID, summary.Average, summary.Count); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.rating_updated event",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}
