package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Object is an opaque backend object. Nested mappings and arrays are
// preserved as decoded by encoding/json.
type Object = map[string]any

// Page is one page of a remote collection listing.
// Items never exceeds Limit; Total may be stale across concurrent pages
// and callers must tolerate that.
type Page struct {
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
	Items  []Object `json:"items"`
}

// Client is the remote collection surface consumed by the console engine.
// Filter expressions are opaque query strings forwarded verbatim; the
// client never parses them.
type Client interface {
	// List fetches one page of a collection. Fails with a REQUEST_ERROR
	// coded *Error on non-2xx responses.
	List(ctx context.Context, collection string, limit, offset int, filter string) (Page, error)

	// ListUnpaged fetches a sub-collection that the backend returns as a
	// bare array without a pagination envelope.
	ListUnpaged(ctx context.Context, path string) (Page, error)

	// Get fetches a single object. A missing object unwraps to ErrNotFound.
	Get(ctx context.Context, collection, id string) (Object, error)

	// Create posts a new object. Structured 400 responses surface their
	// detail string via a VALIDATION_ERROR coded *Error.
	Create(ctx context.Context, collection string, payload Object) (Object, error)

	Update(ctx context.Context, collection, id string, payload Object) (Object, error)
	Delete(ctx context.Context, collection, id string) error

	// ExecuteAction invokes a named operation on an object, e.g.
	// POST /systems/{id}/disable. Payload may be nil.
	ExecuteAction(ctx context.Context, collection, method, id, action string, payload Object) (Object, error)

	// GetAllPaged fetches every page of a filtered collection with a
	// bounded concurrent fan-out. See paged.go for the ordering contract.
	GetAllPaged(ctx context.Context, collection, filter string) ([]Object, error)

	// GetEmployee looks up a backoffice employee by email. A missing
	// employee unwraps to ErrNotFound.
	GetEmployee(ctx context.Context, email string) (Object, error)
	CreateEmployee(ctx context.Context, payload Object) (Object, error)
}

// CredentialStore supplies and persists the token pair. The access token is
// scoped to the active account; the refresh token spans accounts.
type CredentialStore interface {
	AccessToken() string
	RefreshToken() string
	AccountID() string
	SetTokens(access, refresh string)
}

// LoginResult is the response of a successful credential exchange.
type LoginResult struct {
	User         Object `json:"user"`
	Account      Object `json:"account"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// HTTPClient implements Client over the backend's REST surface.
// On a 401 it refreshes the token pair and retries the original request
// exactly once.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	creds   CredentialStore
	log     *zap.Logger

	// refreshMu single-flights token refreshes when parallel requests hit
	// a 401 with the same expired token.
	refreshMu sync.Mutex
}

// NewHTTPClient creates a client rooted at baseURL. A nil logger is
// replaced with zap.NewNop().
func NewHTTPClient(baseURL string, creds CredentialStore, log *zap.Logger) *HTTPClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		creds:   creds,
		log:     log,
	}
}

// BaseURL returns the API root this client talks to.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

func (c *HTTPClient) List(ctx context.Context, collection string, limit, offset int, filter string) (Page, error) {
	qs := url.Values{}
	qs.Set("limit", strconv.Itoa(limit))
	qs.Set("offset", strconv.Itoa(offset))
	path := "/" + collection + "?" + qs.Encode()
	if filter != "" {
		// The filter is an opaque backend query expression, prepended
		// verbatim the way the backend expects it.
		path = "/" + collection + "?" + filter + "&" + qs.Encode()
	}

	var page Page
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

func (c *HTTPClient) ListUnpaged(ctx context.Context, path string) (Page, error) {
	var items []Object
	if err := c.do(ctx, http.MethodGet, "/"+path, nil, &items); err != nil {
		return Page{}, err
	}
	return Page{Total: len(items), Limit: len(items), Items: items}, nil
}

func (c *HTTPClient) Get(ctx context.Context, collection, id string) (Object, error) {
	var obj Object
	if err := c.do(ctx, http.MethodGet, "/"+collection+"/"+id, nil, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (c *HTTPClient) Create(ctx context.Context, collection string, payload Object) (Object, error) {
	var obj Object
	if err := c.do(ctx, http.MethodPost, "/"+collection, payload, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (c *HTTPClient) Update(ctx context.Context, collection, id string, payload Object) (Object, error) {
	var obj Object
	if err := c.do(ctx, http.MethodPut, "/"+collection+"/"+id, payload, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (c *HTTPClient) Delete(ctx context.Context, collection, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+collection+"/"+id, nil, nil)
}

func (c *HTTPClient) ExecuteAction(ctx context.Context, collection, method, id, action string, payload Object) (Object, error) {
	var obj Object
	if err := c.do(ctx, method, "/"+collection+"/"+id+"/"+action, payload, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (c *HTTPClient) GetEmployee(ctx context.Context, email string) (Object, error) {
	var obj Object
	if err := c.do(ctx, http.MethodGet, "/employees/"+email, nil, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (c *HTTPClient) CreateEmployee(ctx context.Context, payload Object) (Object, error) {
	var obj Object
	if err := c.do(ctx, http.MethodPost, "/employees", payload, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// Login exchanges email/password for a token pair. It does not persist
// anything; the caller stores the result.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult
	err := c.doUnauthed(ctx, http.MethodPost, "/auth/tokens", Object{
		"email":    email,
		"password": password,
	}, &result)
	return result, err
}

// SwitchAccount exchanges the refresh token for a pair scoped to accountID
// and stores the new tokens. Returns the account object from the response.
func (c *HTTPClient) SwitchAccount(ctx context.Context, accountID string) (Object, error) {
	var result LoginResult
	err := c.doUnauthed(ctx, http.MethodPost, "/auth/tokens", Object{
		"account":       Object{"id": accountID},
		"refresh_token": c.creds.RefreshToken(),
	}, &result)
	if err != nil {
		return nil, err
	}
	c.creds.SetTokens(result.AccessToken, result.RefreshToken)
	return result.Account, nil
}

// UserAccounts fetches every account the user belongs to.
func (c *HTTPClient) UserAccounts(ctx context.Context, userID string) ([]Object, error) {
	return c.GetAllPaged(ctx, "users/"+userID+"/accounts", "")
}

// CanConnect probes the backend with the stored credentials.
func (c *HTTPClient) CanConnect(ctx context.Context, userID string) bool {
	_, err := c.Get(ctx, "users", userID)
	return err == nil
}

// do issues an authenticated request, refreshing the token pair and
// retrying once on a 401.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload, out any) error {
	body, err := encodeBody(payload)
	if err != nil {
		return requestError(err)
	}

	token := c.creds.AccessToken()
	status, respBody, err := c.send(ctx, method, path, body, token)
	if err != nil {
		return requestError(err)
	}
	if status == http.StatusUnauthorized {
		c.log.Debug("access token expired, refreshing", zap.String("path", path))
		if err := c.refreshExpired(ctx, token); err != nil {
			return err
		}
		status, respBody, err = c.send(ctx, method, path, body, c.creds.AccessToken())
		if err != nil {
			return requestError(err)
		}
	}
	return decodeResponse(method, path, status, respBody, out)
}

// doUnauthed issues a request without bearer auth (token exchanges).
func (c *HTTPClient) doUnauthed(ctx context.Context, method, path string, payload, out any) error {
	body, err := encodeBody(payload)
	if err != nil {
		return requestError(err)
	}
	status, respBody, err := c.send(ctx, method, path, body, "")
	if err != nil {
		return requestError(err)
	}
	return decodeResponse(method, path, status, respBody, out)
}

// refreshExpired rotates the token pair unless another request already
// did. expired is the token the caller was rejected with; requests queued
// behind an in-flight refresh see the rotated token and skip their own.
func (c *HTTPClient) refreshExpired(ctx context.Context, expired string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	if c.creds.AccessToken() != expired {
		return nil
	}
	return c.refreshTokens(ctx)
}

func (c *HTTPClient) refreshTokens(ctx context.Context) error {
	var result LoginResult
	err := c.doUnauthed(ctx, http.MethodPost, "/auth/tokens", Object{
		"account":       Object{"id": c.creds.AccountID()},
		"refresh_token": c.creds.RefreshToken(),
	}, &result)
	if err != nil {
		return err
	}
	c.creds.SetTokens(result.AccessToken, result.RefreshToken)
	return nil
}

func (c *HTTPClient) send(ctx context.Context, method, path string, body []byte, token string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp.StatusCode, respBody, nil
}

func encodeBody(payload any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	return json.Marshal(payload)
}

func decodeResponse(method, path string, status int, body []byte, out any) error {
	if status < 200 || status > 299 {
		if status == http.StatusBadRequest {
			var detail struct {
				Detail string `json:"detail"`
			}
			if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
				return validationError(detail.Detail)
			}
		}
		return statusError(method, path, status)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return requestError(fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}
