package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/service"
)

// ReviewHandler serves the review endpoints. Reads are public, writes need a customer.
type ReviewHandler struct {
	reviews service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews service.ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "review_handler")),
	}
}

// Add handles POST /api/v1/reviews.
func (h *ReviewHandler) Add(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, requestLogger(r, h.logger))
	if !ok {
		return
	}
	var req ReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	review, err := h.reviews.AddReview(r.Context(), p.AccountID, req.itemRef(), req.Rating, req.Comment)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add review")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, reviewToResponse(review))
}

// Update handles PATCH /api/v1/reviews/{id}.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, requestLogger(r, h.logger))
	if !ok {
		return
	}
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req ReviewUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	review, err := h.reviews.UpdateReview(r.Context(), p.AccountID, id, req.toUpdate())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update review")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviewToResponse(review))
}

// Delete handles DELETE /api/v1/reviews/{id}.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, requestLogger(r, h.logger))
	if !ok {
		return
	}
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.reviews.DeleteReview(r.Context(), p.AccountID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete review")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByCustomer handles GET /api/v1/reviews/by-customer?username= or ?email=.
func (h *ReviewHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	page, err := getPage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	q := r.URL.Query()
	who := service.ReviewerSelector{Username: q.Get("username"), Email: q.Get("email")}

	reviews, err := h.reviews.ListByCustomer(r.Context(), who, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list reviews")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviewsToResponse(reviews))
}

// ListByItem handles GET /api/v1/reviews/by-item/{ref}.
func (h *ReviewHandler) ListByItem(w http.ResponseWriter, r *http.Request) {
	ref, err := getPathItemRef(r, "ref")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	page, err := getPage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	reviews, err := h.reviews.ListByItem(r.Context(), ref, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list reviews")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviewsToResponse(reviews))
}

// ListAll handles GET /api/v1/reviews.
func (h *ReviewHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, err := getPage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	reviews, err := h.reviews.ListAll(r.Context(), page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list reviews")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviewsToResponse(reviews))
}
