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
	"strings"
	"time"

	"github.com/ramanasai/shoppingify/internal/auth"
	"github.com/ramanasai/shoppingify/internal/model"
	"github.com/ramanasai/shoppingify/internal/service"
)

// Client talks to a shoppingify server. It satisfies store.Backend.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient returns a client for baseURL. A nil httpClient gets a 15s timeout client.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   auth.StripBearer(token),
		http:    httpClient,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp.StatusCode, data)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) Signup(ctx context.Context, name, email string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/signup", AuthRequest{Name: name, Email: email}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/login", AuthRequest{Email: email}, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

// Session returns nil when the token is not (or no longer) valid.
func (c *Client) Session(ctx context.Context) (*auth.Session, error) {
	var out *auth.Session
	err := c.do(ctx, http.MethodGet, "/api/session", nil, &out)
	return out, err
}

func (c *Client) Catalog(ctx context.Context) (model.Catalog, error) {
	var out model.Catalog
	err := c.do(ctx, http.MethodGet, "/api/catalog", nil, &out)
	return out, err
}

func (c *Client) CreateItem(ctx context.Context, in model.ItemInput) (model.Item, error) {
	var out model.Item
	err := c.do(ctx, http.MethodPost, "/api/items", in, &out)
	return out, err
}

func (c *Client) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	var out model.Category
	err := c.do(ctx, http.MethodPost, "/api/categories", categoryRequest{Name: name}, &out)
	return out, err
}

func (c *Client) GetItem(ctx context.Context, id string) (model.Item, error) {
	var out model.Item
	err := c.do(ctx, http.MethodGet, "/api/items/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/items/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ActiveList(ctx context.Context) (*model.ShoppingList, error) {
	var out *model.ShoppingList
	err := c.do(ctx, http.MethodGet, "/api/lists/active", nil, &out)
	return out, err
}

func (c *Client) SaveList(ctx context.Context, l *model.ShoppingList) (*model.ShoppingList, error) {
	var out model.ShoppingList
	if err := c.do(ctx, http.MethodPut, "/api/lists/active", l, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateList(ctx context.Context, id string, p service.ListPatch) (*model.ShoppingList, error) {
	var out model.ShoppingList
	if err := c.do(ctx, http.MethodPatch, "/api/lists/"+url.PathEscape(id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetListState(ctx context.Context, id string, state model.ListState) (*model.ShoppingList, error) {
	return c.UpdateList(ctx, id, service.ListPatch{State: &state})
}

func (c *Client) GetList(ctx context.Context, id string) (*model.ShoppingList, error) {
	var out model.ShoppingList
	if err := c.do(ctx, http.MethodGet, "/api/lists/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) History(ctx context.Context, q model.HistoryQuery) (model.ListPage, error) {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("perPage", strconv.Itoa(q.PerPage))
	}
	if !q.Since.IsZero() {
		v.Set("since", q.Since.UTC().Format(time.RFC3339))
	}
	path := "/api/lists"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var out model.ListPage
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var out model.Stats
	err := c.do(ctx, http.MethodGet, "/api/stats", nil, &out)
	return out, err
}
