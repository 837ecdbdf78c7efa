package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsightlabs/finsight/internal/pkg/usercontext"
)

// newGateApp mounts a handler behind the given middleware with a fixed user
// context injected, bypassing the session store.
func newGateApp(userCtx *usercontext.UserContext, gate fiber.Handler, path string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userCtx != nil {
			c.Locals(usercontext.KeyUserContext, *userCtx)
		}
		return c.Next()
	})
	app.Get(path, gate, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRequireAuthRedirectsAnonymousWithNext(t *testing.T) {
	app := newGateApp(nil, RequireAuth, "/dashboard")

	resp, err := app.Test(httptest.NewRequest("GET", "/dashboard", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fdashboard", resp.Header.Get("Location"))
}

func TestRequireAuthAllowsLoggedIn(t *testing.T) {
	app := newGateApp(&usercontext.UserContext{IsLoggedIn: true, UserID: 7}, RequireAuth, "/dashboard")

	resp, err := app.Test(httptest.NewRequest("GET", "/dashboard", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name         string
		userCtx      *usercontext.UserContext
		wantStatus   int
		wantLocation string
	}{
		{"anonymous", nil, fiber.StatusSeeOther, "/login?next=%2Fadmin"},
		{"regular user", &usercontext.UserContext{IsLoggedIn: true}, fiber.StatusSeeOther, "/"},
		{"admin", &usercontext.UserContext{IsLoggedIn: true, IsAdmin: true}, fiber.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newGateApp(tc.userCtx, RequireAdmin, "/admin")

			resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, tc.wantLocation, resp.Header.Get("Location"))
		})
	}
}

func TestRequireSubscriptionOrdering(t *testing.T) {
	tests := []struct {
		name         string
		userCtx      *usercontext.UserContext
		wantStatus   int
		wantLocation string
	}{
		// Login check comes before the subscription check.
		{"anonymous", nil, fiber.StatusSeeOther, "/login?next=%2Freports%2Fq2%2Fdownload"},
		{"member without subscription", &usercontext.UserContext{IsLoggedIn: true}, fiber.StatusSeeOther, "/pricing?next=%2Freports%2Fq2%2Fdownload"},
		{"admin without subscription", &usercontext.UserContext{IsLoggedIn: true, IsAdmin: true}, fiber.StatusOK, ""},
		{"subscriber", &usercontext.UserContext{IsLoggedIn: true, SubscriptionActive: true}, fiber.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newGateApp(tc.userCtx, RequireSubscription, "/reports/q2/download")

			resp, err := app.Test(httptest.NewRequest("GET", "/reports/q2/download", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, tc.wantLocation, resp.Header.Get("Location"))
		})
	}
}

func TestRequireCustomerHeader(t *testing.T) {
	app := fiber.New()
	app.Get("/api/subscriptions/active", RequireCustomerHeader, func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(usercontext.KeyCustomerID).(string))
	})

	t.Run("missing header", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/subscriptions/active", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"error":"Missing x-customer-id header"}`, string(body))
	})

	t.Run("blank header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/subscriptions/active", nil)
		req.Header.Set("x-customer-id", "   ")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("header present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/subscriptions/active", nil)
		req.Header.Set("x-customer-id", "cust_42")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "cust_42", string(body))
	})
}

func TestWithNext(t *testing.T) {
	tests := []struct {
		route    string
		original string
		want     string
	}{
		{"/login", "", "/login"},
		{"/login", "/login", "/login"},
		{"/login", "/dashboard", "/login?next=%2Fdashboard"},
		{"/pricing", "/reports/q2/download?v=1", "/pricing?next=%2Freports%2Fq2%2Fdownload%3Fv%3D1"},
	}

	for _, tc := range tests {
		if got := withNext(tc.route, tc.original); got != tc.want {
			t.Fatalf("withNext(%q, %q) = %q, want %q", tc.route, tc.original, got, tc.want)
		}
	}
}
