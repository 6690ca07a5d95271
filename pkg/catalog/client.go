package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
)

const DefaultBaseUrl = "https://fakestoreapi.com"

// Client issues read-only queries against a FakeStore compatible catalog
// service. It does not retry and does not cache; every failure is returned to
// the caller.
type Client struct {
	BaseUrl    string
	HttpClient *http.Client
}

func NewClient(baseUrl string) *Client {
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	return &Client{
		BaseUrl: baseUrl,
		HttpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseUrl+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request %s failed: %w", path, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("catalog request %s returned status %d", path, res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("catalog request %s read failed: %w", path, err)
	}
	if err := sonic.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("catalog request %s returned malformed payload: %w", path, err)
	}
	return nil
}

func (c *Client) getItems(ctx context.Context, path string) ([]Item, error) {
	items := make([]Item, 0)
	if err := c.get(ctx, path, &items); err != nil {
		return nil, err
	}
	for idx := range items {
		if err := items[idx].Validate(); err != nil {
			return nil, fmt.Errorf("catalog request %s: %w", path, err)
		}
	}
	return items, nil
}

func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	categories := make([]string, 0)
	if err := c.get(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) FetchAll(ctx context.Context) ([]Item, error) {
	return c.getItems(ctx, "/products")
}

// FetchByCategory does not check the name against the category list, an
// unknown category is the remote service's to reject.
func (c *Client) FetchByCategory(ctx context.Context, name string) ([]Item, error) {
	return c.getItems(ctx, "/products/category/"+url.PathEscape(name))
}
