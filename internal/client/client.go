package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("warehouse: not found")
	ErrConflict    = errors.New("warehouse: conflict")
	ErrBadRequest  = errors.New("warehouse: bad request")
	ErrBadStatus   = errors.New("warehouse: bad status")
	ErrUnavailable = errors.New("warehouse: unavailable")
)

type Product struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	CategoryName string          `json:"category_name"`
	Price        decimal.Decimal `json:"price"`
}

type Warehouse struct {
	Name     string `json:"name"`
	Products int    `json:"products"`
	Empty    bool   `json:"empty"`
}

// NewProduct describes a product to add. A nil ID lets the server generate
// one and an invalid Price means zero.
type NewProduct struct {
	ID       uuid.UUID
	Name     string
	Category string
	Price    decimal.NullDecimal
}

type Client struct {
	BaseURL string
	Client  *http.Client
}

func New(baseURL string) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

// OpenWarehouse creates the named warehouse or empties an existing one.
func (c *Client) OpenWarehouse(ctx context.Context, name string) (Warehouse, error) {
	var out Warehouse
	err := c.do(ctx, http.MethodPost, c.warehousePath(name), nil, &out)
	return out, err
}

func (c *Client) AddProduct(ctx context.Context, warehouse string, p NewProduct) (Product, error) {
	body := map[string]any{
		"name":     p.Name,
		"category": p.Category,
	}
	if p.ID != uuid.Nil {
		body["id"] = p.ID.String()
	}
	if p.Price.Valid {
		body["price"] = p.Price.Decimal
	}

	var out Product
	err := c.do(ctx, http.MethodPost, c.warehousePath(warehouse)+"/products", body, &out)
	return out, err
}

func (c *Client) Product(ctx context.Context, warehouse string, id uuid.UUID) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodGet, c.warehousePath(warehouse)+"/products/"+id.String(), nil, &out)
	return out, err
}

func (c *Client) UpdatePrice(ctx context.Context, warehouse string, id uuid.UUID, price decimal.Decimal) error {
	path := c.warehousePath(warehouse) + "/products/" + id.String() + "/price"
	return c.do(ctx, http.MethodPut, path, map[string]any{"price": price}, nil)
}

func (c *Client) Products(ctx context.Context, warehouse string) ([]Product, error) {
	var out []Product
	err := c.do(ctx, http.MethodGet, c.warehousePath(warehouse)+"/products", nil, &out)
	return out, err
}

func (c *Client) ChangedProducts(ctx context.Context, warehouse string) ([]Product, error) {
	var out []Product
	err := c.do(ctx, http.MethodGet, c.warehousePath(warehouse)+"/changes", nil, &out)
	return out, err
}

func (c *Client) warehousePath(name string) string {
	return fmt.Sprintf("%s/warehouses/%s", c.BaseURL, url.PathEscape(name))
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusNotFound:
		return statusError(ErrNotFound, resp)
	case resp.StatusCode == http.StatusConflict:
		return statusError(ErrConflict, resp)
	case resp.StatusCode == http.StatusBadRequest:
		return statusError(ErrBadRequest, resp)
	case resp.StatusCode == http.StatusServiceUnavailable, resp.StatusCode == http.StatusTooManyRequests:
		return statusError(ErrUnavailable, resp)
	default:
		return statusError(ErrBadStatus, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusError(kind error, resp *http.Response) error {
	var e struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
	if e.Error != "" {
		return fmt.Errorf("%w: status=%d: %s", kind, resp.StatusCode, e.Error)
	}
	return fmt.Errorf("%w: status=%d", kind, resp.StatusCode)
}
