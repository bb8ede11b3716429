package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// HTTPClient implements Client over REST/JSON.
type HTTPClient struct {
	baseURL string
	hc      *http.Client

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

// NewHTTPClient creates a transport bound to baseURL, e.g.
// "http://127.0.0.1:8080".
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

// SetAuthToken installs token as the default bearer credential for all
// subsequent requests.
func (c *HTTPClient) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearAuthToken removes the default bearer credential.
func (c *HTTPClient) ClearAuthToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// OnUnauthorized registers fn to be called whenever an authorized request is
// rejected with 401. Registration replaces any previous callback.
func (c *HTTPClient) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", nil, nil)
}

// Exchange trades a credential pair for a fresh session. The request is
// always anonymous: even while a token is installed (a re-login over an
// active session) no bearer header is attached, so a wrong password comes
// back as a plain 401 and never triggers the unauthorized hook.
func (c *HTTPClient) Exchange(ctx context.Context, email, password string) (*ExchangeResult, error) {
	body := map[string]string{"email": email, "password": password}
	result := &ExchangeResult{}
	if err := c.send(ctx, http.MethodPost, "/auth/login", body, result, false); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, u NewUser) (*UserPayload, error) {
	created := &UserPayload{}
	if err := c.do(ctx, http.MethodPost, "/user", u, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, u UserUpdate) (*UserPayload, error) {
	updated := &UserPayload{}
	if err := c.do(ctx, http.MethodPut, "/user", u, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/user", nil, nil)
}

func (c *HTTPClient) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}
	return c.do(ctx, http.MethodPatch, "/user/change/password", body, nil)
}

func (c *HTTPClient) FindPerfil(ctx context.Context, id string) (*Perfil, error) {
	perfil := &Perfil{}
	if err := c.do(ctx, http.MethodGet, "/perfil/"+url.PathEscape(id), nil, perfil); err != nil {
		return nil, err
	}
	return perfil, nil
}

func (c *HTTPClient) AvatarUploadURL(ctx context.Context, contentType string) (*AvatarTicket, error) {
	body := map[string]string{"contentType": contentType}
	ticket := &AvatarTicket{}
	if err := c.do(ctx, http.MethodPost, "/user/avatar/upload-url", body, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// do runs one request/response cycle with the default bearer credential.
// A 401 on a request that carried the header fires the unauthorized callback
// before the error is returned, so the session state is already torn down by
// the time the caller sees the failure.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	return c.send(ctx, method, path, in, out, true)
}

// send is the single request/response cycle behind do and Exchange. The
// bearer header is attached only when withAuth is set and a token is
// installed; the unauthorized hook fires only for such requests.
func (c *HTTPClient) send(ctx context.Context, method, path string, in, out any, withAuth bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	token := c.token
	hook := c.onUnauthorized
	c.mu.RUnlock()

	authorized := withAuth && token != ""
	if authorized {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remote := &RemoteError{Status: resp.StatusCode, Message: readMessage(resp.Body)}
		if resp.StatusCode == http.StatusUnauthorized && authorized && hook != nil {
			hook()
		}
		return remote
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readMessage extracts {"message": "..."} from an error body, falling back to
// the raw text.
func readMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(data))
}
