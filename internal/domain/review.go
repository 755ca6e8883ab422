package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Review limits.
const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 1000
)

// Review is a customer's rating of an item they bought.
type Review struct {
	ID         int64
	CustomerID int64
	ItemID     int64
	Rating     int
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewReview builds a review after validating rating and comment.
func NewReview(customerID, itemID int64, rating int, comment string, now time.Time) (*Review, error) {
	now = now.UTC()
	r := &Review{
		CustomerID: customerID,
		ItemID:     itemID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks rating bounds and comment length.
func (r *Review) Validate() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return NewValidationError("rating", fmt.Sprintf("must be between %d and %d", MinRating, MaxRating), nil)
	}
	if r.Comment == "" || utf8.RuneCountInString(r.Comment) > MaxCommentLength {
		return NewValidationError("comment", fmt.Sprintf("must be 1-%d characters", MaxCommentLength), nil)
	}
	return nil
}

// ReviewUpdate carries a partial review change.
type ReviewUpdate struct {
	Rating  *int
	Comment *string
}

// Apply writes the update onto r and validates the result.
func (u ReviewUpdate) Apply(r *Review, now time.Time) error {
	if u.Rating == nil && u.Comment == nil {
		return NewValidationError("review", "at least one field must be provided", nil)
	}
	next := *r
	if u.Rating != nil {
		next.Rating = *u.Rating
	}
	if u.Comment != nil {
		next.Comment = strings.TrimSpace(*u.Comment)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = now.UTC()
	*r = next
	return nil
}
