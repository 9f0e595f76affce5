package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/councilos/councilos/internal/llm"
	"github.com/councilos/councilos/tests/helpers"
)

func TestAuthIntegration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-auth-integration-tests")

	testDB := helpers.NewTestDatabase(t)
	defer testDB.Close()

	ts := newTestServer(t, testDB, llm.NewRegistry())

	email := fmt.Sprintf("test-auth-%d@example.com", time.Now().UnixNano())
	password := helpers.DefaultTestUser.Password
	testDB.CreateTestUser(t, email, password)

	t.Run("Valid Login", func(t *testing.T) {
		w := ts.request(t, http.MethodPost, "/api/auth/login", "", helpers.CreateTestLoginRequest(email, password))
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Token string `json:"token"`
			User  struct {
				Email string `json:"email"`
			} `json:"user"`
		}
		decodeJSON(t, w, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, email, resp.User.Email)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		w := ts.request(t, http.MethodPost, "/api/auth/login", "", helpers.CreateTestLoginRequest(email, "wrong-password"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Unknown User", func(t *testing.T) {
		w := ts.request(t, http.MethodPost, "/api/auth/login", "", helpers.CreateTestLoginRequest("nobody@example.com", password))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Protected Route Without Token", func(t *testing.T) {
		w := ts.request(t, http.MethodGet, "/api/councils", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Protected Route With Garbage Token", func(t *testing.T) {
		w := ts.request(t, http.MethodGet, "/api/councils", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Protected Route With Valid Token", func(t *testing.T) {
		loginW := ts.request(t, http.MethodPost, "/api/auth/login", "", helpers.CreateTestLoginRequest(email, password))
		var resp struct {
			Token string `json:"token"`
		}
		decodeJSON(t, loginW, &resp)

		w := ts.request(t, http.MethodGet, "/api/councils", resp.Token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
