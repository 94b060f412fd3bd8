package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincon/fincon/pkg/api"
)

// memCreds is an in-memory CredentialStore for exercising the refresh cycle.
type memCreds struct {
	mu      sync.Mutex
	access  string
	refresh string
	account string
}

func (c *memCreds) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access
}

func (c *memCreds) RefreshToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refresh
}

func (c *memCreds) AccountID() string { return c.account }

func (c *memCreds) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access = access
	c.refresh = refresh
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestListForwardsFilterVerbatim(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(t, w, http.StatusOK, api.Page{Total: 0, Limit: 10, Offset: 20})
	}))
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, &memCreds{access: "tok"}, nil)
	_, err := client.List(context.Background(), "accounts", 10, 20, "and(eq(type,affiliate),eq(status,active))&order_by(name)")
	require.NoError(t, err)

	// The filter expression must reach the backend untouched, ahead of the
	// pagination parameters.
	assert.True(t, strings.HasPrefix(gotQuery, "and(eq(type,affiliate),eq(status,active))&order_by(name)&"), gotQuery)
	assert.Contains(t, gotQuery, "limit=10")
	assert.Contains(t, gotQuery, "offset=20")
}

func TestListWithoutFilter(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(t, w, http.StatusOK, api.Page{Total: 1, Limit: 10, Items: []api.Object{{"id": "obj-1"}}})
	}))
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, &memCreds{access: "tok"}, nil)
	page, err := client.List(context.Background(), "accounts", 10, 0, "")
	require.NoError(t, err)
	assert.Equal(t, "limit=10&offset=0", gotQuery)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "obj-1", page.Items[0]["id"])
}

func TestRefreshAndRetryOnce(t *testing.T) {
	creds := &memCreds{access: "stale", refresh: "refresh-1", account: "acc-1"}

	var userCalls, authCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/tokens":
			authCalls++
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "refresh-1", body["refresh_token"])
			writeJSON(t, w, http.StatusOK, api.LoginResult{
				AccessToken:  "fresh",
				RefreshToken: "refresh-2",
			})
		case "/users/usr-1":
			userCalls++
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeJSON(t, w, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
				return
			}
			writeJSON(t, w, http.StatusOK, api.Object{"id": "usr-1"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, creds, nil)
	obj, err := client.Get(context.Background(), "users", "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "usr-1", obj["id"])

	assert.Equal(t, 2, userCalls, "original request retried exactly once")
	assert.Equal(t, 1, authCalls)
	assert.Equal(t, "fresh", creds.AccessToken())
	assert.Equal(t, "refresh-2", creds.RefreshToken())
}

func TestParallelExpiredRequestsRefreshOnce(t *testing.T) {
	creds := &memCreds{access: "stale", refresh: "refresh-1", account: "acc-1"}

	var authCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/tokens":
			authCalls.Add(1)
			time.Sleep(20 * time.Millisecond) // widen the window for racers
			writeJSON(t, w, http.StatusOK, api.LoginResult{
				AccessToken:  "fresh",
				RefreshToken: "refresh-2",
			})
		default:
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeJSON(t, w, http.StatusOK, api.Object{"id": "obj"})
		}
	}))
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, creds, nil)
	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = client.Get(context.Background(), "accounts", "obj")
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), authCalls.Load(), "one refresh serves every waiter")
	assert.Equal(t, "fresh", creds.AccessToken())
}

func TestRefreshFailureStopsRetry(t *testing.T) {
	creds := &memCreds{access: "stale", refresh: "revoked", account: "acc-1"}

	var userCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/tokens":
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"detail": "refresh token revoked"})
		case "/users/usr-1":
			userCalls++
			writeJSON(t, w, http.StatusUnauthorized, nil)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, creds, nil)
	_, err := client.Get(context.Background(), "users", "usr-1")
	require.Error(t, err)
	assert.Equal(t, 1, userCalls, "no retry when the refresh itself fails")
	assert.Equal(t, "stale", creds.AccessToken())
}

func TestNotFoundUnwrapsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, &memCreds{access: "tok"}, nil)
	_, err := client.Get(context.Background(), "accounts", "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrNotFound))

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, api.CodeNotFound, apiErr.Code)
	assert.Equal(t, "Not found", apiErr.Title)
}

func TestStructuredBadRequestIsValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"detail": "name must be unique"})
	}))
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, &memCreds{access: "tok"}, nil)
	_, err := client.Create(context.Background(), "accounts", api.Object{"name": "dup"})
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "name must be unique", apiErr.Message)
}

func TestUnstructuredFailureIsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, &memCreds{access: "tok"}, nil)
	_, err := client.Get(context.Background(), "accounts", "acc-1")
	require.Error(t, err)
	assert.False(t, api.IsValidation(err))
	assert.False(t, errors.Is(err, api.ErrNotFound))

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, api.CodeRequest, apiErr.Code)
}

func TestEveryRequestCarriesARequestID(t *testing.T) {
	seen := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "request ids must not repeat")
		seen[id] = true
		writeJSON(t, w, http.StatusOK, api.Object{"id": "acc-1"})
	}))
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, &memCreds{access: "tok"}, nil)
	for i := 0; i < 3; i++ {
		_, err := client.Get(context.Background(), "accounts", "acc-1")
		require.NoError(t, err)
	}
	assert.Len(t, seen, 3)
}

func TestListUnpagedWrapsBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizations/org-1/datasources", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []api.Object{{"id": "ds-1"}, {"id": "ds-2"}})
	}))
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, &memCreds{access: "tok"}, nil)
	page, err := client.ListUnpaged(context.Background(), "organizations/org-1/datasources")
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "ds-2", page.Items[1]["id"])
}

func TestExecuteActionHitsActionPath(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody api.Object
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(t, w, http.StatusOK, api.Object{"id": "sys-1", "status": "disabled"})
	}))
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, &memCreds{access: "tok"}, nil)
	obj, err := client.ExecuteAction(context.Background(), "systems", http.MethodPost, "sys-1", "disable", nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/systems/sys-1/disable", gotPath)
	assert.Nil(t, gotBody)
	assert.Equal(t, "disabled", obj["status"])
}

func TestLoginDoesNotSendBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ops@swo.com", body["email"])
		writeJSON(t, w, http.StatusOK, api.LoginResult{
			User:         api.Object{"id": "usr-1"},
			AccessToken:  "access",
			RefreshToken: "refresh",
		})
	}))
	defer srv.Close()

	client := api.NewHTTPClient(srv.URL, &memCreds{}, nil)
	result, err := client.Login(context.Background(), "ops@swo.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "usr-1", result.User["id"])
	assert.Equal(t, "access", result.AccessToken)
}
