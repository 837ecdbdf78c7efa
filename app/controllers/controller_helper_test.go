package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsightlabs/finsight/internal/pkg/usercontext"
)

func TestSafeNext(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback string
		want     string
	}{
		{"empty", "", "/dashboard", "/dashboard"},
		{"relative path", "/reports", "/dashboard", "/reports"},
		{"with query", "/reports?symbol=TCS", "/dashboard", "/reports?symbol=TCS"},
		{"absolute url", "https://evil.example/", "/dashboard", "/dashboard"},
		{"protocol relative", "//evil.example/", "/dashboard", "/dashboard"},
		{"no leading slash", "reports", "/dashboard", "/dashboard"},
		{"whitespace only", "   ", "/dashboard", "/dashboard"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := safeNext(tc.raw, tc.fallback); got != tc.want {
				t.Fatalf("safeNext(%q, %q) = %q, want %q", tc.raw, tc.fallback, got, tc.want)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	app := fiber.New()
	app.Get("/ip", func(c *fiber.Ctx) error {
		return c.SendString(GetClientIP(c))
	})

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare header wins", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"}, "203.0.113.7"},
		{"first forwarded hop", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, "198.51.100.1"},
		{"direct connection", nil, "0.0.0.0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ip", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			buf := make([]byte, 64)
			n, _ := resp.Body.Read(buf)
			assert.Equal(t, tc.want, string(buf[:n]))
		})
	}
}

func TestLoginPageRedirectsActiveSession(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{IsLoggedIn: true, UserID: 7})
		return c.Next()
	})
	app.Get("/login", HandleAuthLogin)

	resp, err := app.Test(httptest.NewRequest("GET", "/login", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}
