package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReview(t *testing.T) {
	t.Parallel()

	now := time.Now()

	r, err := NewReview(1, 2, 5, "  Great value  ", now)
	require.NoError(t, err)
	assert.Equal(t, "Great value", r.Comment)

	for _, rating := range []int{0, 6, -1} {
		_, err := NewReview(1, 2, rating, "ok", now)
		assert.ErrorIs(t, err, ErrValidation, "rating %d", rating)
	}

	_, err = NewReview(1, 2, 3, "", now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewReview(1, 2, 3, strings.Repeat("a", MaxCommentLength+1), now)
	assert.ErrorIs(t, err, ErrValidation)
	t.Run("comment length counts characters", func(t *testing.T) {
		t.Parallel()

		arabic := strings.Repeat("ب", MaxCommentLength)
		r, err := NewReview(1, 2, 5, arabic, now)
		require.NoError(t, err)
		assert.Equal(t, arabic, r.Comment)

		_, err = NewReview(1, 2, 5, arabic+"ب", now)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestReviewUpdateApply(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r, err := NewReview(1, 2, 4, "Good", created)
	require.NoError(t, err)

	assert.ErrorIs(t, ReviewUpdate{}.Apply(r, time.Now()), ErrValidation)

	bad := 9
	assert.ErrorIs(t, ReviewUpdate{Rating: &bad}.Apply(r, time.Now()), ErrValidation)
	assert.Equal(t, 4, r.Rating)

	rating, comment := 2, "Broke after a week"
	later := created.Add(48 * time.Hour)
	require.NoError(t, ReviewUpdate{Rating: &rating, Comment: &comment}.Apply(r, later))
	assert.Equal(t, 2, r.Rating)
	assert.Equal(t, comment, r.Comment)
	assert.Equal(t, later, r.UpdatedAt)
	assert.Equal(t, created, r.CreatedAt)
}
