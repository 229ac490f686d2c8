package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestFullUpdateRejected(t *testing.T) {
	app := fiber.New()
	handler := NewRecipeHandler(nil, nil)
	app.Put("/api/recipes/:id", handler.RejectFullUpdate)

	req := httptest.NewRequest(fiber.MethodPut, "/api/recipes/1", nil)
	res, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusMethodNotAllowed, res.StatusCode)
}

func TestNonIntegerRecipeIDIsNotFound(t *testing.T) {
	app := fiber.New()
	// the id is rejected before the service is consulted
	handler := NewRecipeHandler(nil, nil)
	app.Post("/api/recipes/:id/favorite", handler.Favorite)
	app.Delete("/api/recipes/:id", handler.DeleteRecipe)

	req := httptest.NewRequest(fiber.MethodPost, "/api/recipes/abc/favorite", nil)
	res, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	req = httptest.NewRequest(fiber.MethodDelete, "/api/recipes/12.5", nil)
	res, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestPaginationDefaults(t *testing.T) {
	app := fiber.New()
	app.Get("/probe", func(c *fiber.Ctx) error {
		page, limit := pagination(c, 6)
		return c.JSON(fiber.Map{"page": page, "limit": limit})
	})

	cases := []struct {
		target string
		page   int
		limit  int
	}{
		{"/probe", 1, 6},
		{"/probe?page=3&limit=12", 3, 12},
		{"/probe?page=0&limit=-4", 1, 6},
		{"/probe?page=abc", 1, 6},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(fiber.MethodGet, tc.target, nil)
		res, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode, tc.target)

		var body struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
		}
		assert.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		assert.Equal(t, tc.page, body.Page, tc.target)
		assert.Equal(t, tc.limit, body.Limit, tc.target)
	}
}
