package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	listingserrors "hostelhub/internal/listings/errors"
	"hostelhub/internal/listings/repository"
	"hostelhub/internal/listings/validator"
	"hostelhub/pkg/config"
	apperrors "hostelhub/pkg/errors"
	"hostelhub/pkg/model"
	"hostelhub/pkg/policy"
	"hostelhub/pkg/sanitizer"
)

type ListingService interface {
	Create(ctx context.Context, actor model.Actor, listing *model.Listing) error
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.Listing, error)
	Search(ctx context.Context, filter *model.ListingFilter, limit int, offset int64) ([]*model.Listing, int64, error)
	Update(ctx context.Context, actor model.Actor, id string, updates *model.ListingUpdate) (*model.Listing, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
	AddReview(ctx context.Context, actor model.Actor, id string, review *model.Review) (*model.Listing, error)
}

type listingService struct {
	repo      repository.ListingRepository
	validator *validator.ListingValidator
	cfg       *config.Config
}

func NewListingService(
	repo repository.ListingRepository,
	validator *validator.ListingValidator,
	cfg *config.Config,
) ListingService {
	return &listingService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *listingService) Create(ctx context.Context, actor model.Actor, listing *model.Listing) error {
	if err := policy.Authorize(actor, policy.ListingCreate, policy.Target{}); err != nil {
		return err
	}

	s.sanitize(listing)

	listing.OwnerID = actor.ID
	listing.IsActive = true
	listing.Reviews = nil
	listing.Rating = 0
	assignRoomIDs(listing.Rooms)

	if err := s.validator.Validate(listing); err != nil {
		s.cfg.Log.Warn("Listing validation failed",
			"name", listing.Name,
			"owner_id", listing.OwnerID,
			"error", err,
		)
		return apperrors.Validation("Listing validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		s.cfg.Log.Error("Failed to create listing",
			"name", listing.Name,
			"error", err,
		)
		return apperrors.Internal("Failed to create listing", err)
	}

	s.cfg.Log.Info("Listing created",
		"id", listing.ID,
		"name", listing.Name,
		"rooms", len(listing.Rooms),
	)

	return nil
}

func (s *listingService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.Listing, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}

	listing, err := s.findListing(ctx, id)
	if err != nil {
		return nil, err
	}

	// Deactivated listings stay visible to their owner and to admins only.
	if !listing.IsActive && !actor.IsAdmin() && listing.OwnerID != actor.ID {
		return nil, apperrors.NotFoundWithID("Listing", id)
	}

	return listing, nil
}

func (s *listingService) Search(ctx context.Context, filter *model.ListingFilter, limit int, offset int64) ([]*model.Listing, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	s.sanitizeFilter(filter)

	listings, err := s.repo.Search(ctx, filter, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to search listings", "error", err)
		return nil, 0, apperrors.Internal("Failed to search listings", err)
	}

	count, err := s.repo.CountSearch(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to count listings", "error", err)
		return nil, 0, apperrors.Internal("Failed to count listings", err)
	}

	return listings, count, nil
}

func (s *listingService) Update(ctx context.Context, actor model.Actor, id string, updates *model.ListingUpdate) (*model.Listing, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}

	existing, err := s.findListing(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(actor, policy.ListingUpdate, policy.Target{OwnerID: existing.OwnerID}); err != nil {
		return nil, err
	}

	merged := s.mergeListingUpdates(existing, updates)
	s.sanitize(merged)
	assignRoomIDs(merged.Rooms)

	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Listing validation failed",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Validation("Listing validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", id)
		}
		s.cfg.Log.Error("Failed to update listing",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to update listing", err)
	}

	s.cfg.Log.Info("Listing updated", "id", id, "name", merged.Name)

	return merged, nil
}

// Delete deactivates the listing. The document is kept so existing bookings
// and reviews stay resolvable.
func (s *listingService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Listing ID cannot be empty")
	}

	existing, err := s.findListing(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.Authorize(actor, policy.ListingDelete, policy.Target{OwnerID: existing.OwnerID}); err != nil {
		return err
	}

	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Listing", id)
		}
		s.cfg.Log.Error("Failed to deactivate listing",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to deactivate listing", err)
	}

	s.cfg.Log.Info("Listing deactivated", "id", id)

	return nil
}

func (s *listingService) AddReview(ctx context.Context, actor model.Actor, id string, review *model.Review) (*model.Listing, error) {
	if err := policy.Authorize(actor, policy.ListingReview, policy.Target{}); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}

	listing, err := s.findListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, apperrors.InvalidState("Listing is not active")
	}

	review.ID = uuid.NewString()
	review.UserID = actor.ID
	review.Date = time.Now().UTC().Truncate(time.Millisecond)
	review.Comment = sanitizer.SanitizeText(review.Comment)

	if err := s.validator.ValidateReview(review); err != nil {
		s.cfg.Log.Warn("Review validation failed",
			"listing_id", id,
			"user_id", actor.ID,
			"error", err,
		)
		return nil, apperrors.Validation("Review validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	listing.Reviews = append(listing.Reviews, *review)
	listing.RecomputeRating()

	if err := s.repo.AddReview(ctx, id, *review, listing.Rating); err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", id)
		}
		s.cfg.Log.Error("Failed to add review",
			"listing_id", id,
			"user_id", actor.ID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to add review", err)
	}

	s.cfg.Log.Info("Review added",
		"listing_id", id,
		"user_id", actor.ID,
		"rating", review.Rating,
		"aggregate_rating", listing.Rating,
	)

	return listing, nil
}

func (s *listingService) findListing(ctx context.Context, id string) (*model.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", id)
		}
		if errors.Is(err, listingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid listing ID format")
		}
		s.cfg.Log.Error("Failed to get listing by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve listing", err)
	}
	return listing, nil
}

func (s *listingService) sanitize(listing *model.Listing) {
	listing.Name = sanitizer.SanitizeText(listing.Name)
	listing.Description = sanitizer.SanitizeText(listing.Description)
	listing.Address.Street = sanitizer.SanitizeText(listing.Address.Street)
	listing.Address.City = sanitizer.SanitizeCity(listing.Address.City)
	listing.Address.State = sanitizer.SanitizeCity(listing.Address.State)
	listing.Address.Country = sanitizer.SanitizeCity(listing.Address.Country)
	listing.ContactInfo.Phone = sanitizer.SanitizePhone(listing.ContactInfo.Phone)
	listing.Amenities = sanitizer.SanitizeSlice(listing.Amenities, sanitizer.SanitizeCity)
	for i := range listing.Rooms {
		listing.Rooms[i].Amenities = sanitizer.SanitizeSlice(listing.Rooms[i].Amenities, sanitizer.SanitizeCity)
	}
}

func (s *listingService) sanitizeFilter(filter *model.ListingFilter) {
	if filter == nil {
		return
	}
	filter.Text = sanitizer.SanitizeText(filter.Text)
	filter.City = sanitizer.SanitizeCity(filter.City)
	filter.State = sanitizer.SanitizeCity(filter.State)
	filter.Country = sanitizer.SanitizeCity(filter.Country)
	filter.Amenities = sanitizer.SanitizeSlice(filter.Amenities, sanitizer.SanitizeCity)
}

func (s *listingService) mergeListingUpdates(existing *model.Listing, updates *model.ListingUpdate) *model.Listing {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}
	if updates.Address != nil {
		merged.Address = *updates.Address
	}
	if updates.ContactInfo != nil {
		merged.ContactInfo = *updates.ContactInfo
	}
	if updates.Amenities != nil {
		merged.Amenities = *updates.Amenities
	}
	if updates.Images != nil {
		merged.Images = *updates.Images
	}
	if updates.Rooms != nil {
		merged.Rooms = *updates.Rooms
	}
	if updates.Policies != nil {
		merged.Policies = updates.Policies
	}

	merged.ID = existing.ID
	merged.OwnerID = existing.OwnerID
	merged.Reviews = existing.Reviews
	merged.Rating = existing.Rating
	merged.IsActive = existing.IsActive
	merged.CreatedAt = existing.CreatedAt

	return &merged
}

func assignRoomIDs(rooms []model.Room) {
	for i := range rooms {
		if rooms[i].ID == "" {
			rooms[i].ID = uuid.NewString()
		}
	}
}
