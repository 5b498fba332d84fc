package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"hostelhub/internal/listings/service"
	apperrors "hostelhub/pkg/errors"
	httputil "hostelhub/pkg/http"
	"hostelhub/pkg/logger"
	"hostelhub/pkg/middleware"
	"hostelhub/pkg/model"
)

type ListingHandler struct {
	service service.ListingService
	log     *logger.Logger
}

func NewListingHandler(service service.ListingService, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		log:     log,
	}
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var listing model.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.service.Create(r.Context(), actor, &listing); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, listing); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	actor := middleware.ActorFromContext(r.Context())
	listing, err := h.service.GetByID(r.Context(), actor, id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, listing); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	filter, err := parseListingFilter(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	listings, total, err := h.service.Search(r.Context(), filter, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, listings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "operation", "WritePaginated", "error", err)
	}
}

func parseListingFilter(r *http.Request) (*model.ListingFilter, error) {
	query := r.URL.Query()

	filter := &model.ListingFilter{
		Text:    query.Get("q"),
		City:    query.Get("city"),
		State:   query.Get("state"),
		Country: query.Get("country"),
	}

	if s := query.Get("min_price"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid min_price parameter: " + s)
		}
		filter.MinPrice = &v
	}
	if s := query.Get("max_price"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid max_price parameter: " + s)
		}
		filter.MaxPrice = &v
	}
	if amenities, ok := query["amenities"]; ok {
		filter.Amenities = amenities
	}

	return filter, nil
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.ListingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	listing, err := h.service.Update(r.Context(), actor, id, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, listing); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	actor := middleware.ActorFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ListingHandler) AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var review model.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddReview", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	listing, err := h.service.AddReview(r.Context(), actor, id, &review)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddReview", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, listing); err != nil {
		h.log.Error("failed to write created response", "handler", "AddReview", "operation", "WriteCreated", "error", err)
	}
}

func (h *ListingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/listings", h.Create)
	router.GET("/api/v1/listings", h.Search)
	router.GET("/api/v1/listings/:id", h.GetByID)
	router.PATCH("/api/v1/listings/:id", h.Update)
	router.DELETE("/api/v1/listings/:id", h.Delete)
	router.POST("/api/v1/listings/:id/reviews", h.AddReview)
}
