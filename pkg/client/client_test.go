package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Login successful","data":{"id":"u1","email":"a@b.co","role":"client","token":"tok-123"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)

	session, err := c.Login(context.Background(), "a@b.co", "password123")
	require.NoError(t, err)
	assert.Equal(t, "u1", session.ID)
	assert.Equal(t, "client", session.Role)
	assert.Equal(t, "tok-123", c.Token())
}

func TestBearerTokenAttached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Projects retrieved successfully","data":[{"id":"p1","title":"Site redesign","status":"pending"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")

	projects, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Site redesign", projects[0].Title)
}

func TestFailureEnvelopeBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"success":false,"message":"Forbidden: Insufficient permissions","data":null}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")

	_, err := c.ListUsers(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "Forbidden: Insufficient permissions", apiErr.Message)
}

func TestLogoutClearsToken(t *testing.T) {
	c := New("http://localhost:8080")
	c.SetToken("tok-123")
	c.Logout()
	assert.Empty(t, c.Token())
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Missing or invalid authorization token","data":null}`))
	}))
	defer srv.Close()

	c := New(srv.URL)

	_, err := c.ListProjects(context.Background())
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.Health(context.Background()))
}
