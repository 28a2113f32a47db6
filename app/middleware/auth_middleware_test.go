package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sepehrdad/Hydra-Marketing/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokenService struct {
	claims map[string]*services.TokenClaims
}

func (s *stubTokenService) GenerateTokens(uint) (string, string, error) { return "", "", nil }

func (s *stubTokenService) ValidateToken(token string) (*services.TokenClaims, error) {
	claims, ok := s.claims[token]
	if !ok {
		return nil, services.ErrTokenInvalid
	}
	return claims, nil
}

func (s *stubTokenService) RefreshToken(string) (string, string, error) { return "", "", nil }

func accessClaims(customerID uint) *services.TokenClaims {
	return &services.TokenClaims{
		CustomerID: customerID,
		TokenType:  services.TokenTypeAccess,
		TokenID:    "tid",
	}
}

func newConnectTestApp(tokens map[string]*services.TokenClaims) *fiber.App {
	m := NewAuthMiddleware(&stubTokenService{claims: tokens})

	app := fiber.New()
	app.Post("/connect/:platform/start", m.AuthenticateConnect(), func(c fiber.Ctx) error {
		customerID, _ := GetCustomerIDFromContext(c)
		return c.JSON(fiber.Map{"customer_id": customerID})
	})

	return app
}

func customerFromResponse(t *testing.T, resp *http.Response) uint {
	t.Helper()
	var body struct {
		CustomerID uint `json:"customer_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.CustomerID
}

func TestConnectAuthQueryParameterWins(t *testing.T) {
	app := newConnectTestApp(map[string]*services.TokenClaims{
		"query-tok":  accessClaims(1),
		"cookie-tok": accessClaims(2),
		"header-tok": accessClaims(3),
	})

	req := httptest.NewRequest(http.MethodPost, "/connect/twitter/start?token=query-tok", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-tok"})
	req.Header.Set("Authorization", "Bearer header-tok")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, uint(1), customerFromResponse(t, resp))
}

func TestConnectAuthCookieBeatsHeader(t *testing.T) {
	app := newConnectTestApp(map[string]*services.TokenClaims{
		"cookie-tok": accessClaims(2),
		"header-tok": accessClaims(3),
	})

	req := httptest.NewRequest(http.MethodPost, "/connect/twitter/start", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-tok"})
	req.Header.Set("Authorization", "Bearer header-tok")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, uint(2), customerFromResponse(t, resp))
}

func TestConnectAuthFallsBackToHeader(t *testing.T) {
	app := newConnectTestApp(map[string]*services.TokenClaims{
		"header-tok": accessClaims(3),
	})

	req := httptest.NewRequest(http.MethodPost, "/connect/twitter/start", nil)
	req.Header.Set("Authorization", "Bearer header-tok")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, uint(3), customerFromResponse(t, resp))
}

func TestConnectAuthMissingCredential(t *testing.T) {
	app := newConnectTestApp(nil)

	req := httptest.NewRequest(http.MethodPost, "/connect/twitter/start", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConnectAuthRejectsInvalidToken(t *testing.T) {
	app := newConnectTestApp(nil)

	req := httptest.NewRequest(http.MethodPost, "/connect/twitter/start?token=forged", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConnectAuthRejectsRefreshToken(t *testing.T) {
	app := newConnectTestApp(map[string]*services.TokenClaims{
		"refresh-tok": {CustomerID: 4, TokenType: services.TokenTypeRefresh, TokenID: "tid"},
	})

	req := httptest.NewRequest(http.MethodPost, "/connect/twitter/start?token=refresh-tok", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
