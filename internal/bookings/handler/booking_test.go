package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "hostelhub/pkg/errors"
	"hostelhub/pkg/logger"
	"hostelhub/pkg/middleware"
	"hostelhub/pkg/model"
)

type mockBookingService struct {
	createFunc       func(ctx context.Context, actor model.Actor, booking *model.Booking) error
	getByIDFunc      func(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	listFunc         func(ctx context.Context, actor model.Actor, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	cancelFunc       func(ctx context.Context, actor model.Actor, id string, reason string) (*model.Booking, error)
	changeStatusFunc func(ctx context.Context, actor model.Actor, id string, change *model.BookingStatusChange) (*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, actor model.Actor, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, actor, booking)
	}
	return nil
}

func (m *mockBookingService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, actor, id)
	}
	return nil, nil
}

func (m *mockBookingService) List(ctx context.Context, actor model.Actor, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, actor, filter, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, actor model.Actor, id string, reason string) (*model.Booking, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, actor, id, reason)
	}
	return nil, nil
}

func (m *mockBookingService) ChangeStatus(ctx context.Context, actor model.Actor, id string, change *model.BookingStatusChange) (*model.Booking, error) {
	if m.changeStatusFunc != nil {
		return m.changeStatusFunc(ctx, actor, id, change)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func withActor(r *http.Request, actor model.Actor) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ActorKey, actor)
	return r.WithContext(ctx)
}

func TestCreate_PassesActorFromContext(t *testing.T) {
	actor := model.Actor{ID: "656f1e6a2c94f8a3b4d1e222", Role: model.RoleUser}

	var gotActor model.Actor
	mockService := &mockBookingService{
		createFunc: func(ctx context.Context, a model.Actor, booking *model.Booking) error {
			gotActor = a
			booking.ID = "656f1e6a2c94f8a3b4d1eaaa"
			return nil
		},
	}
	handler := NewBookingHandler(mockService, testLogger())

	body := `{"listing_id":"656f1e6a2c94f8a3b4d1e9f0","room_id":"0d4f7a36-9a7e-4d76-9f4e-1f2a3b4c5d6e"}`
	req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body)), actor)
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}
	if gotActor != actor {
		t.Errorf("service must receive the request actor, got %+v", gotActor)
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	handler := NewBookingHandler(&mockBookingService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.NotFoundWithID("Booking", "x"), http.StatusNotFound, apperrors.CodeNotFound},
		{"forbidden", apperrors.Forbidden("no"), http.StatusForbidden, apperrors.CodeForbidden},
		{"invalid state", apperrors.InvalidState("too late"), http.StatusConflict, apperrors.CodeInvalidState},
		{"conflict", apperrors.Conflict("taken"), http.StatusConflict, apperrors.CodeConflict},
		{"unauthorized", apperrors.Unauthorized("who"), http.StatusUnauthorized, apperrors.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mockBookingService{
				cancelFunc: func(ctx context.Context, actor model.Actor, id string, reason string) (*model.Booking, error) {
					return nil, tt.serviceErr
				},
			}
			handler := NewBookingHandler(mockService, testLogger())

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/656f1e6a2c94f8a3b4d1eaaa", nil)
			w := httptest.NewRecorder()

			handler.Cancel(w, req, httprouter.Params{{Key: "id", Value: "656f1e6a2c94f8a3b4d1eaaa"}})

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var resp struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestList_ForwardsFilterAndPagination(t *testing.T) {
	var gotFilter *model.BookingFilter
	var gotLimit int
	var gotOffset int64
	mockService := &mockBookingService{
		listFunc: func(ctx context.Context, actor model.Actor, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
			gotFilter = filter
			gotLimit = limit
			gotOffset = offset
			return []*model.Booking{}, 0, nil
		},
	}
	handler := NewBookingHandler(mockService, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=confirmed&limit=25&offset=50", nil)
	w := httptest.NewRecorder()

	handler.List(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if gotFilter.Status != "confirmed" {
		t.Errorf("status filter not forwarded, got %q", gotFilter.Status)
	}
	if gotLimit != 25 || gotOffset != 50 {
		t.Errorf("pagination not forwarded, got limit=%d offset=%d", gotLimit, gotOffset)
	}
}
