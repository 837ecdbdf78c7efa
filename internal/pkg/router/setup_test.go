package router

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both route groups must satisfy Router for setup to install them.
var (
	_ Router = (*HttpRouter)(nil)
	_ Router = (*ApiRouter)(nil)
)

func TestSetupInstallsApiRoutes(t *testing.T) {
	app := fiber.New()
	setup(app, NewApiRouter())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "finsight", body["service"])
}

func TestSetupInstalledRoutesEnforceCustomerHeader(t *testing.T) {
	app := fiber.New()
	setup(app, NewApiRouter())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/subscriptions/active", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
