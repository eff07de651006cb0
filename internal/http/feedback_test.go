package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingNeedsPurchase(t *testing.T) {
	app, _ := newApp(t)
	alice := login(t, app, "alice@artstore.test")
	bob := login(t, app, "bob@artstore.test")
	admin := login(t, app, "admin@artstore.test")

	known := call(t, app, "POST", "/api/v1/products/watercolor-pan/ratings", alice, map[string]any{"value": 4})
	unknown := call(t, app, "POST", "/api/v1/products/does-not-exist/ratings", alice, map[string]any{"value": 4})
	assert.Equal(t, http.StatusForbidden, known.Status)
	assert.Equal(t, http.StatusForbidden, unknown.Status)
	assert.JSONEq(t, string(known.Body), string(unknown.Body), "an unknown product must look like any other product not bought")

	// admins get no exemption
	assert.Equal(t, http.StatusForbidden, call(t, app, "POST", "/api/v1/products/watercolor-pan/ratings", admin, map[string]any{"value": 5}).Status)

	require.Equal(t, http.StatusOK, call(t, app, "POST", "/api/v1/cart/lines", alice, map[string]any{"productId": "watercolor-pan", "quantity": 1}).Status)
	require.Equal(t, http.StatusCreated, call(t, app, "POST", "/api/v1/checkout", alice, nil).Status)

	assert.Equal(t, http.StatusBadRequest, call(t, app, "POST", "/api/v1/products/watercolor-pan/ratings", alice, map[string]any{"value": 6}).Status)

	r := call(t, app, "POST", "/api/v1/products/watercolor-pan/ratings", alice, map[string]any{"value": 2})
	require.Equal(t, http.StatusCreated, r.Status, string(r.Body))
	r = call(t, app, "POST", "/api/v1/products/watercolor-pan/ratings", alice, map[string]any{"value": 4})
	require.Equal(t, http.StatusCreated, r.Status)
	ratingID := r.JSON(t)["id"].(string)

	r = call(t, app, "GET", "/api/v1/products/watercolor-pan/ratings", "", nil)
	require.Equal(t, http.StatusOK, r.Status)
	summary := r.JSON(t)["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["count"], "rating again replaces the earlier value")
	assert.EqualValues(t, 4, summary["average"])

	assert.Equal(t, http.StatusForbidden, call(t, app, "DELETE", "/api/v1/ratings/"+ratingID, bob, nil).Status)
	assert.Equal(t, http.StatusNoContent, call(t, app, "DELETE", "/api/v1/ratings/"+ratingID, admin, nil).Status)
	assert.Equal(t, http.StatusNotFound, call(t, app, "DELETE", "/api/v1/ratings/"+ratingID, alice, nil).Status)
}

func TestReviewFlow(t *testing.T) {
	app, _ := newApp(t)
	alice := login(t, app, "alice@artstore.test")
	bob := login(t, app, "bob@artstore.test")

	assert.Equal(t, http.StatusForbidden, call(t, app, "POST", "/api/v1/products/canvas-40x50/reviews", bob, map[string]any{"text": "nice"}).Status)

	require.Equal(t, http.StatusOK, call(t, app, "POST", "/api/v1/cart/lines", bob, map[string]any{"productId": "canvas-40x50", "quantity": 3}).Status)
	require.Equal(t, http.StatusCreated, call(t, app, "POST", "/api/v1/checkout", bob, nil).Status)

	assert.Equal(t, http.StatusBadRequest, call(t, app, "POST", "/api/v1/products/canvas-40x50/reviews", bob, map[string]any{"text": "   "}).Status)

	r := call(t, app, "POST", "/api/v1/products/canvas-40x50/reviews", bob, map[string]any{"text": "  Takes paint well.  "})
	require.Equal(t, http.StatusCreated, r.Status, string(r.Body))
	rv := r.JSON(t)
	assert.Equal(t, "Takes paint well.", rv["text"])
	id := rv["id"].(string)

	r = call(t, app, "GET", "/api/v1/products/canvas-40x50/reviews", "", nil)
	require.Equal(t, http.StatusOK, r.Status)
	assert.Len(t, r.List(t), 1)

	assert.Equal(t, http.StatusForbidden, call(t, app, "PUT", "/api/v1/reviews/"+id, alice, map[string]any{"text": "hijack"}).Status)
	assert.Equal(t, http.StatusBadRequest, call(t, app, "PUT", "/api/v1/reviews/"+id, bob, map[string]any{"text": ""}).Status)
	assert.Equal(t, http.StatusNotFound, call(t, app, "PUT", "/api/v1/reviews/missing", bob, map[string]any{"text": "hello"}).Status)
	r = call(t, app, "PUT", "/api/v1/reviews/"+id, bob, map[string]any{"text": "Takes paint well, no warping."})
	require.Equal(t, http.StatusOK, r.Status, string(r.Body))
	assert.Equal(t, "Takes paint well, no warping.", r.JSON(t)["text"])
	assert.NotEmpty(t, r.JSON(t)["updatedAt"])

	assert.Equal(t, http.StatusForbidden, call(t, app, "DELETE", "/api/v1/reviews/"+id, alice, nil).Status)
	assert.Equal(t, http.StatusNoContent, call(t, app, "DELETE", "/api/v1/reviews/"+id, bob, nil).Status)
}

func TestAdminGuards(t *testing.T) {
	app, _ := newApp(t)
	alice := login(t, app, "alice@artstore.test")
	admin := login(t, app, "admin@artstore.test")

	assert.Equal(t, http.StatusUnauthorized, call(t, app, "GET", "/api/v1/admin/orders", "", nil).Status)

	var r result
	entries := captureLogs(t, func() {
		r = call(t, app, "GET", "/api/v1/admin/stock", alice, nil)
	})
	assert.Equal(t, http.StatusForbidden, r.Status)
	assert.True(t, hasAction(entries, "access.denied.admin"))

	r = call(t, app, "GET", "/api/v1/admin/stock", admin, nil)
	require.Equal(t, http.StatusOK, r.Status)
	assert.Len(t, r.List(t), 7)

	assert.Equal(t, http.StatusBadRequest, call(t, app, "PUT", "/api/v1/admin/products/oil-set-12/price", admin, map[string]any{"price": "0"}).Status)
	assert.Equal(t, http.StatusBadRequest, call(t, app, "PUT", "/api/v1/admin/products/oil-set-12/price", admin, map[string]any{"price": "1.999"}).Status)
	assert.Equal(t, http.StatusNotFound, call(t, app, "PUT", "/api/v1/admin/products/nope/price", admin, map[string]any{"price": "5.00"}).Status)
	assert.Equal(t, http.StatusNoContent, call(t, app, "PUT", "/api/v1/admin/products/oil-set-12/price", admin, map[string]any{"price": "45.00"}).Status)

	assert.Equal(t, http.StatusBadRequest, call(t, app, "PUT", "/api/v1/admin/products/sketchbook-a4/stock", admin, map[string]any{"quantity": -3}).Status)
	assert.Equal(t, http.StatusNoContent, call(t, app, "PUT", "/api/v1/admin/products/sketchbook-a4/stock", admin, map[string]any{"quantity": 10}).Status)

	r = call(t, app, "GET", "/api/v1/products/sketchbook-a4/availability", "", nil)
	require.Equal(t, http.StatusOK, r.Status)
	assert.Equal(t, "IN_STOCK", r.JSON(t)["status"])

	r = call(t, app, "GET", "/api/v1/products/oil-set-12", "", nil)
	assert.Equal(t, "45", r.JSON(t)["product"].(map[string]any)["price"])

	r = call(t, app, "POST", "/api/v1/admin/products", admin, map[string]any{
		"categoryId": "paints", "name": "Gesso 1L", "price": "12.40", "quantity": -1,
	})
	assert.Equal(t, http.StatusBadRequest, r.Status, "negative opening stock is a client error")
	assert.Equal(t, "invalid quantity", r.JSON(t)["error"])

	r = call(t, app, "POST", "/api/v1/admin/products", admin, map[string]any{
		"categoryId": "paints", "name": "Gesso 1L", "price": "12.40", "quantity": 5,
	})
	require.Equal(t, http.StatusCreated, r.Status, string(r.Body))
	assert.NotEmpty(t, r.JSON(t)["id"])

	r = call(t, app, "GET", "/api/v1/admin/orders", admin, nil)
	assert.Equal(t, http.StatusOK, r.Status)
}
