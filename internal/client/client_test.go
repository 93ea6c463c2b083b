package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.StandardClaims{
		Subject:   "u1",
		ExpiresAt: expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("irrelevant"))
	require.NoError(t, err)
	return token
}

func TestTokenExpired(t *testing.T) {
	assert.False(t, tokenExpired(signTestToken(t, time.Now().Add(time.Hour))))
	assert.True(t, tokenExpired(signTestToken(t, time.Now().Add(-time.Hour))))
	assert.True(t, tokenExpired("garbage"))
	assert.True(t, tokenExpired(""))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, session *Session) (*Client, *SessionStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := newTestStore(t)
	if session != nil {
		require.NoError(t, store.Save(session))
	}

	c, err := New(server.URL, store)
	require.NoError(t, err)
	return c, store
}

func TestDo_AttachesBearerToken(t *testing.T) {
	token := signTestToken(t, time.Now().Add(time.Hour))

	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"me": map[string]string{"id": "u1", "name": "Alice"}},
		})
	}, &Session{Token: token, IsAuthenticated: true})

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, gotAuth)
	assert.Equal(t, "Alice", user.Name)
}

func TestDo_ExpiredTokenDropsSession(t *testing.T) {
	expired := signTestToken(t, time.Now().Add(-time.Hour))

	var gotAuth string
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]interface{}{{
				"message":    "not authenticated",
				"extensions": map[string]string{"code": "UNAUTHENTICATED"},
			}},
		})
	}, &Session{Token: expired, IsAuthenticated: true})

	_, err := c.Me(context.Background())
	require.Error(t, err)

	// The visibly-expired token is never sent
	assert.Empty(t, gotAuth)

	session, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.False(t, session.IsAuthenticated)
}

func TestDo_ExpiredAccessTokenUsesRefresh(t *testing.T) {
	expired := signTestToken(t, time.Now().Add(-time.Hour))
	refresh := signTestToken(t, time.Now().Add(24*time.Hour))
	fresh := signTestToken(t, time.Now().Add(time.Hour))

	var authHeaders []string
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Variables["refreshToken"] != nil {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{"refreshToken": map[string]interface{}{
					"token":        fresh,
					"refreshToken": refresh,
					"user":         map[string]string{"id": "u1", "name": "Alice", "email": "alice@example.com"},
				}},
			})
			return
		}

		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"me": map[string]string{"id": "u1", "name": "Alice"}},
		})
	}, &Session{
		User:            &User{ID: "u1", Name: "Alice"},
		Token:           expired,
		RefreshToken:    refresh,
		IsAuthenticated: true,
	})

	_, err := c.Me(context.Background())
	require.NoError(t, err)

	require.Len(t, authHeaders, 1)
	assert.Equal(t, "Bearer "+fresh, authHeaders[0])

	session, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.Equal(t, fresh, session.Token)
	assert.True(t, session.IsAuthenticated)
}

func TestDo_UnauthenticatedEndsSession(t *testing.T) {
	token := signTestToken(t, time.Now().Add(time.Hour))

	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]interface{}{{
				"message":    "invalid token",
				"extensions": map[string]string{"code": "UNAUTHENTICATED"},
			}},
		})
	}, &Session{Token: token, IsAuthenticated: true})

	var notices int
	c.OnSessionExpired = func() { notices++ }

	_, err := c.Me(context.Background())
	require.Error(t, err)

	var gqlErr *GraphQLError
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, "UNAUTHENTICATED", gqlErr.Code())

	assert.Equal(t, 1, notices)
	assert.False(t, c.Session().IsAuthenticated)

	session, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.False(t, session.IsAuthenticated)
}

func TestDo_OtherErrorsKeepSession(t *testing.T) {
	token := signTestToken(t, time.Now().Add(time.Hour))

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]interface{}{{
				"message":    "category not found",
				"extensions": map[string]string{"code": "NOT_FOUND"},
			}},
		})
	}, &Session{Token: token, IsAuthenticated: true})

	err := c.DeleteCategory(context.Background(), "missing")
	require.Error(t, err)

	var gqlErr *GraphQLError
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, "NOT_FOUND", gqlErr.Code())
	assert.True(t, c.Session().IsAuthenticated, "non-auth errors must not end the session")
}

func TestLogin_PersistsSession(t *testing.T) {
	token := signTestToken(t, time.Now().Add(time.Hour))
	refresh := signTestToken(t, time.Now().Add(24*time.Hour))

	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"login": map[string]interface{}{
				"token":        token,
				"refreshToken": refresh,
				"user":         map[string]string{"id": "u1", "name": "Alice", "email": "alice@example.com"},
			}},
		})
	}, nil)

	payload, err := c.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", payload.User.Name)

	session, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.True(t, session.IsAuthenticated)
	assert.Equal(t, token, session.Token)
	assert.Equal(t, refresh, session.RefreshToken)
}

func TestDo_CachesQueriesUntilMutation(t *testing.T) {
	token := signTestToken(t, time.Now().Add(time.Hour))

	var listCalls int
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		json.NewDecoder(r.Body).Decode(&req)

		if req.Variables["id"] != nil {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{"deleteCategory": true},
			})
			return
		}

		listCalls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"listCategories": []map[string]interface{}{{"id": "c1", "name": "Groceries"}}},
		})
	}, &Session{Token: token, IsAuthenticated: true})

	for i := 0; i < 3; i++ {
		categories, err := c.ListCategories(context.Background())
		require.NoError(t, err)
		require.Len(t, categories, 1)
	}
	assert.Equal(t, 1, listCalls, "repeated reads should be served from cache")

	require.NoError(t, c.DeleteCategory(context.Background(), "c1"))

	_, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, listCalls, "a mutation must invalidate the cache")
}

func TestLogout_ClearsSession(t *testing.T) {
	token := signTestToken(t, time.Now().Add(time.Hour))
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, &Session{Token: token, IsAuthenticated: true})

	require.NoError(t, c.Logout())

	assert.False(t, c.Session().IsAuthenticated)
	session, err := store.Load()
	require.NoError(t, err)
	assert.False(t, session.IsAuthenticated)
}
