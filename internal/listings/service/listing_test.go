package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	listingserrors "hostelhub/internal/listings/errors"
	"hostelhub/internal/listings/validator"
	"hostelhub/pkg/config"
	mongotx "hostelhub/pkg/db/mongo"
	apperrors "hostelhub/pkg/errors"
	"hostelhub/pkg/logger"
	"hostelhub/pkg/model"
)

type mockListingRepository struct {
	createFunc      func(ctx context.Context, listing *model.Listing) error
	findByIDFunc    func(ctx context.Context, id string) (*model.Listing, error)
	searchFunc      func(ctx context.Context, filter *model.ListingFilter, limit int, offset int64) ([]*model.Listing, error)
	countSearchFunc func(ctx context.Context, filter *model.ListingFilter) (int64, error)
	updateFunc      func(ctx context.Context, id string, listing *model.Listing) (*mongo.UpdateResult, error)
	setActiveFunc   func(ctx context.Context, id string, active bool) error
	addReviewFunc   func(ctx context.Context, id string, review model.Review, rating float64) error
}

func (m *mockListingRepository) Create(ctx context.Context, listing *model.Listing) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, listing)
	}
	listing.ID = "656f1e6a2c94f8a3b4d1e9f0"
	return nil
}

func (m *mockListingRepository) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, listingserrors.ErrNotFound
}

func (m *mockListingRepository) Search(ctx context.Context, filter *model.ListingFilter, limit int, offset int64) ([]*model.Listing, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, filter, limit, offset)
	}
	return []*model.Listing{}, nil
}

func (m *mockListingRepository) CountSearch(ctx context.Context, filter *model.ListingFilter) (int64, error) {
	if m.countSearchFunc != nil {
		return m.countSearchFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockListingRepository) Update(ctx context.Context, id string, listing *model.Listing) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, listing)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockListingRepository) SetActive(ctx context.Context, id string, active bool) error {
	if m.setActiveFunc != nil {
		return m.setActiveFunc(ctx, id, active)
	}
	return nil
}

func (m *mockListingRepository) AddReview(ctx context.Context, id string, review model.Review, rating float64) error {
	if m.addReviewFunc != nil {
		return m.addReviewFunc(ctx, id, review, rating)
	}
	return nil
}

func (m *mockListingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func validListing(ownerID string) *model.Listing {
	return &model.Listing{
		Name:        "Sunrise Backpackers",
		Description: "A quiet hostel close to the old town square.",
		Address: model.Address{
			Street:  "12 Harbour Lane",
			City:    "lisbon",
			State:   "lisbon",
			Country: "portugal",
			ZipCode: "1100-341",
		},
		ContactInfo: model.ContactInfo{
			Phone: "+351912345678",
			Email: "stay@sunrise.example",
		},
		Rooms: []model.Room{
			{Type: model.RoomTypeDormitory, Capacity: 8, Price: 18.5, IsAvailable: true},
			{Type: model.RoomTypeDouble, Capacity: 2, Price: 55, IsAvailable: true},
		},
		IsActive: true,
		OwnerID:  ownerID,
	}
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

const (
	adminID = "656f1e6a2c94f8a3b4d1e111"
	userID  = "656f1e6a2c94f8a3b4d1e222"
	otherID = "656f1e6a2c94f8a3b4d1e333"
)

var (
	adminActor = model.Actor{ID: adminID, Role: model.RoleAdmin}
	userActor  = model.Actor{ID: userID, Role: model.RoleUser}
	otherActor = model.Actor{ID: otherID, Role: model.RoleUser}
)

func TestCreate_AssignsRoomIDsAndDefaults(t *testing.T) {
	var stored *model.Listing
	mockRepo := &mockListingRepository{
		createFunc: func(ctx context.Context, listing *model.Listing) error {
			stored = listing
			listing.ID = "656f1e6a2c94f8a3b4d1e9f0"
			return nil
		},
	}
	svc := NewListingService(mockRepo, validator.NewListingValidator(), testConfig(t))

	listing := validListing(adminID)
	listing.Rating = 4.9
	listing.Reviews = []model.Review{{UserID: userID, Rating: 5, Comment: "smuggled in"}}

	if err := svc.Create(context.Background(), adminActor, listing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored == nil {
		t.Fatal("listing was not persisted")
	}
	if stored.Rating != 0 || len(stored.Reviews) != 0 {
		t.Errorf("client-supplied rating/reviews must be reset, got rating=%v reviews=%d", stored.Rating, len(stored.Reviews))
	}
	if !stored.IsActive {
		t.Error("new listings must be active")
	}
	if stored.OwnerID != adminID {
		t.Errorf("owner must be the creating actor, got %s", stored.OwnerID)
	}
	for i, room := range stored.Rooms {
		if room.ID == "" {
			t.Errorf("room %d has no assigned ID", i)
		}
	}
}

func TestCreate_PolicyDeniesNonAdmin(t *testing.T) {
	svc := NewListingService(&mockListingRepository{}, validator.NewListingValidator(), testConfig(t))

	err := svc.Create(context.Background(), userActor, validListing(userID))
	if code := appErrCode(t, err); code != apperrors.CodeForbidden {
		t.Errorf("expected FORBIDDEN, got %s", code)
	}

	err = svc.Create(context.Background(), model.Anonymous(), validListing(userID))
	if code := appErrCode(t, err); code != apperrors.CodeUnauthorized {
		t.Errorf("expected UNAUTHORIZED, got %s", code)
	}
}

func TestCreate_ValidationFailure(t *testing.T) {
	called := false
	mockRepo := &mockListingRepository{
		createFunc: func(ctx context.Context, listing *model.Listing) error {
			called = true
			return nil
		},
	}
	svc := NewListingService(mockRepo, validator.NewListingValidator(), testConfig(t))

	listing := validListing(adminID)
	listing.Rooms = nil

	err := svc.Create(context.Background(), adminActor, listing)
	if code := appErrCode(t, err); code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", code)
	}
	if called {
		t.Error("repository must not be called when validation fails")
	}
}

func TestGetByID_InactiveVisibility(t *testing.T) {
	listing := validListing(userID)
	listing.ID = "656f1e6a2c94f8a3b4d1e9f0"
	listing.IsActive = false

	mockRepo := &mockListingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			return listing, nil
		},
	}
	svc := NewListingService(mockRepo, validator.NewListingValidator(), testConfig(t))

	tests := []struct {
		name     string
		actor    model.Actor
		wantCode string
	}{
		{"owner sees inactive", userActor, ""},
		{"admin sees inactive", adminActor, ""},
		{"other user gets not found", otherActor, apperrors.CodeNotFound},
		{"anonymous gets not found", model.Anonymous(), apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetByID(context.Background(), tt.actor, listing.ID)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got.ID != listing.ID {
					t.Errorf("expected listing %s, got %s", listing.ID, got.ID)
				}
				return
			}
			if code := appErrCode(t, err); code != tt.wantCode {
				t.Errorf("expected %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestUpdate_MergesAndPreservesOwnedFields(t *testing.T) {
	existing := validListing(userID)
	existing.ID = "656f1e6a2c94f8a3b4d1e9f0"
	existing.Rating = 4.5
	existing.Reviews = []model.Review{{ID: "r1", UserID: otherID, Rating: 4, Comment: "nice stay"}}
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	existing.CreatedAt = createdAt

	var updated *model.Listing
	mockRepo := &mockListingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			copied := *existing
			return &copied, nil
		},
		updateFunc: func(ctx context.Context, id string, listing *model.Listing) (*mongo.UpdateResult, error) {
			updated = listing
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := NewListingService(mockRepo, validator.NewListingValidator(), testConfig(t))

	newRooms := []model.Room{{Type: model.RoomTypeSuite, Capacity: 4, Price: 120, IsAvailable: true}}
	_, err := svc.Update(context.Background(), userActor, existing.ID, &model.ListingUpdate{
		Name:  "Sunset Backpackers",
		Rooms: &newRooms,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Name != "Sunset Backpackers" {
		t.Errorf("name not merged, got %q", updated.Name)
	}
	if updated.Description != existing.Description {
		t.Error("unset fields must keep their existing values")
	}
	if len(updated.Rooms) != 1 || updated.Rooms[0].Type != model.RoomTypeSuite {
		t.Errorf("rooms not replaced: %+v", updated.Rooms)
	}
	if updated.Rooms[0].ID == "" {
		t.Error("replacement rooms must get IDs assigned")
	}
	if updated.Rating != 4.5 || len(updated.Reviews) != 1 {
		t.Error("reviews and rating must survive updates untouched")
	}
	if updated.OwnerID != userID || !updated.CreatedAt.Equal(createdAt) {
		t.Error("owner and created_at must be immutable")
	}
}

func TestUpdate_PolicyScoping(t *testing.T) {
	existing := validListing(userID)
	existing.ID = "656f1e6a2c94f8a3b4d1e9f0"

	mockRepo := &mockListingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			copied := *existing
			return &copied, nil
		},
	}
	svc := NewListingService(mockRepo, validator.NewListingValidator(), testConfig(t))

	_, err := svc.Update(context.Background(), otherActor, existing.ID, &model.ListingUpdate{Name: "Hijacked"})
	if code := appErrCode(t, err); code != apperrors.CodeForbidden {
		t.Errorf("expected FORBIDDEN for non-owner, got %s", code)
	}

	if _, err := svc.Update(context.Background(), adminActor, existing.ID, &model.ListingUpdate{Name: "Renamed by admin"}); err != nil {
		t.Errorf("admin update should succeed, got %v", err)
	}
}

func TestDelete_Deactivates(t *testing.T) {
	existing := validListing(userID)
	existing.ID = "656f1e6a2c94f8a3b4d1e9f0"

	var gotActive *bool
	mockRepo := &mockListingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			copied := *existing
			return &copied, nil
		},
		setActiveFunc: func(ctx context.Context, id string, active bool) error {
			gotActive = &active
			return nil
		},
	}
	svc := NewListingService(mockRepo, validator.NewListingValidator(), testConfig(t))

	if err := svc.Delete(context.Background(), userActor, existing.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotActive == nil || *gotActive {
		t.Error("delete must set is_active to false")
	}

	err := svc.Delete(context.Background(), otherActor, existing.ID)
	if code := appErrCode(t, err); code != apperrors.CodeForbidden {
		t.Errorf("expected FORBIDDEN for non-owner, got %s", code)
	}
}

func TestAddReview_RecomputesRating(t *testing.T) {
	existing := validListing(userID)
	existing.ID = "656f1e6a2c94f8a3b4d1e9f0"
	existing.Reviews = []model.Review{
		{ID: "r1", UserID: otherID, Rating: 3, Comment: "average"},
	}
	existing.Rating = 3

	var gotRating float64
	var gotReview model.Review
	mockRepo := &mockListingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			copied := *existing
			copied.Reviews = append([]model.Review(nil), existing.Reviews...)
			return &copied, nil
		},
		addReviewFunc: func(ctx context.Context, id string, review model.Review, rating float64) error {
			gotReview = review
			gotRating = rating
			return nil
		},
	}
	svc := NewListingService(mockRepo, validator.NewListingValidator(), testConfig(t))

	result, err := svc.AddReview(context.Background(), otherActor, existing.ID, &model.Review{
		Rating:  5,
		Comment: "much improved",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotRating != 4 {
		t.Errorf("expected aggregate rating 4 (mean of 3 and 5), got %v", gotRating)
	}
	if gotReview.ID == "" {
		t.Error("review must get an assigned ID")
	}
	if gotReview.UserID != otherID {
		t.Errorf("review author must be the actor, got %s", gotReview.UserID)
	}
	if gotReview.Date.IsZero() {
		t.Error("review date must be set")
	}
	if result.Rating != 4 {
		t.Errorf("returned listing must carry the new rating, got %v", result.Rating)
	}
}

func TestAddReview_InactiveListing(t *testing.T) {
	existing := validListing(userID)
	existing.ID = "656f1e6a2c94f8a3b4d1e9f0"
	existing.IsActive = false

	mockRepo := &mockListingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			copied := *existing
			return &copied, nil
		},
	}
	svc := NewListingService(mockRepo, validator.NewListingValidator(), testConfig(t))

	_, err := svc.AddReview(context.Background(), otherActor, existing.ID, &model.Review{Rating: 5, Comment: "ghost review"})
	if code := appErrCode(t, err); code != apperrors.CodeInvalidState {
		t.Errorf("expected INVALID_STATE, got %s", code)
	}
}

func TestAddReview_InvalidRating(t *testing.T) {
	existing := validListing(userID)
	existing.ID = "656f1e6a2c94f8a3b4d1e9f0"

	called := false
	mockRepo := &mockListingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			copied := *existing
			return &copied, nil
		},
		addReviewFunc: func(ctx context.Context, id string, review model.Review, rating float64) error {
			called = true
			return nil
		},
	}
	svc := NewListingService(mockRepo, validator.NewListingValidator(), testConfig(t))

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.AddReview(context.Background(), otherActor, existing.ID, &model.Review{Rating: rating, Comment: "out of range"})
		if code := appErrCode(t, err); code != apperrors.CodeValidation {
			t.Errorf("rating %d: expected VALIDATION_ERROR, got %s", rating, code)
		}
	}
	if called {
		t.Error("repository must not be called for invalid reviews")
	}
}

func TestSearch_NormalizesFilterAndPagination(t *testing.T) {
	var gotFilter *model.ListingFilter
	var gotLimit int
	mockRepo := &mockListingRepository{
		searchFunc: func(ctx context.Context, filter *model.ListingFilter, limit int, offset int64) ([]*model.Listing, error) {
			gotFilter = filter
			gotLimit = limit
			return []*model.Listing{}, nil
		},
		countSearchFunc: func(ctx context.Context, filter *model.ListingFilter) (int64, error) {
			return 0, nil
		},
	}
	svc := NewListingService(mockRepo, validator.NewListingValidator(), testConfig(t))

	_, _, err := svc.Search(context.Background(), &model.ListingFilter{
		City:      "  Lisbon ",
		Amenities: []string{" WiFi ", "wifi", "Laundry"},
	}, 0, -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotFilter.City != "lisbon" {
		t.Errorf("city not normalized, got %q", gotFilter.City)
	}
	if len(gotFilter.Amenities) != 2 {
		t.Errorf("amenities must be deduped after normalization, got %v", gotFilter.Amenities)
	}
	if gotLimit <= 0 || gotLimit > 100 {
		t.Errorf("limit not normalized, got %d", gotLimit)
	}
}
