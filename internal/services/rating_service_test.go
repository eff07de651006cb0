package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artstore/internal/domain"
)

func buy(t *testing.T, e *env, who domain.Identity, productID string) {
	t.Helper()
	require.NoError(t, e.carts.AddLine(testContext(t), who, productID, 1))
	_, err := e.orders.Checkout(testContext(t), who)
	require.NoError(t, err)
}

func TestRate_RequiresPurchase(t *testing.T) {
	e := newEnv(t)
	ctx := testContext(t)

	_, err := e.ratings.Rate(ctx, alice, "oil-set-12", 5)
	require.ErrorIs(t, err, domain.ErrNotEligible)
	var ne *domain.NotEligibleError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "u-alice", ne.UserID)

	// an unknown product gets the same answer as an unpurchased one
	_, err = e.ratings.Rate(ctx, alice, "no-such-product", 5)
	assert.ErrorIs(t, err, domain.ErrNotEligible)
	assert.Equal(t, ne.Error(), err.Error())

	_, err = e.ratings.Rate(ctx, admin, "oil-set-12", 5)
	assert.ErrorIs(t, err, domain.ErrNotEligible, "admins are not exempt")

	_, err = e.ratings.Rate(ctx, guest, "oil-set-12", 5)
	assert.ErrorIs(t, err, domain.ErrUserNotAuthenticated)
}

func TestRate_AfterPurchase(t *testing.T) {
	e := newEnv(t)
	ctx := testContext(t)
	buy(t, e, alice, "oil-set-12")
	buy(t, e, bob, "oil-set-12")

	_, err := e.ratings.Rate(ctx, alice, "oil-set-12", 6)
	assert.ErrorIs(t, err, domain.ErrInvalidRating)
	_, err = e.ratings.Rate(ctx, alice, "oil-set-12", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	first, err := e.ratings.Rate(ctx, alice, "oil-set-12", 5)
	require.NoError(t, err)
	again, err := e.ratings.Rate(ctx, alice, "oil-set-12", 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "re-rating replaces the value")
	assert.Equal(t, 3, again.Value)

	_, err = e.ratings.Rate(ctx, bob, "oil-set-12", 4)
	require.NoError(t, err)

	list, err := e.ratings.ListForProduct(ctx, "oil-set-12")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	sum, err := e.ratings.Summary(ctx, "oil-set-12")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Count)
	assert.InDelta(t, 3.5, sum.Average, 0.0001)

	empty, err := e.ratings.Summary(ctx, "canvas-40x50")
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.Average)
}

func TestRate_Delete(t *testing.T) {
	e := newEnv(t)
	ctx := testContext(t)
	buy(t, e, alice, "oil-set-12")
	r, err := e.ratings.Rate(ctx, alice, "oil-set-12", 4)
	require.NoError(t, err)

	assert.ErrorIs(t, e.ratings.Delete(ctx, bob, r.ID), domain.ErrForbidden)
	require.NoError(t, e.ratings.Delete(ctx, admin, r.ID), "admins may delete any rating")
	assert.ErrorIs(t, e.ratings.Delete(ctx, alice, r.ID), domain.ErrRatingNotFound)

	r, err = e.ratings.Rate(ctx, alice, "oil-set-12", 2)
	require.NoError(t, err)
	require.NoError(t, e.ratings.Delete(ctx, alice, r.ID))
}
